package tapmap

import "testing"

func TestSerializeTree(t *testing.T) {
	root := NewBox(0, 0, 200, 100)
	label := NewText(`click "here" & <enjoy>`)
	label.SetAttr("x", 10)
	label.SetAttr("y", 20)
	root.AddChild(label)
	img := NewImage("logo.png")
	root.AddChild(img)

	tri := NewPolygon(Vec2{0, 0}, Vec2{10, 0}, Vec2{5, 10.5})

	got := Serialize([]*VisualNode{root, tri})
	want := `<div height="100" width="200" x="0" y="0">
  <span x="10" y="20">click &quot;here&quot; &amp; &lt;enjoy&gt;</span>
  <img src="logo.png"/>
</div>
<polygon points="0,0 10,0 5,10.5"/>
`
	if got != want {
		t.Errorf("Serialize() =\n%s\nwant:\n%s", got, want)
	}
}

func TestSerializeDeterministic(t *testing.T) {
	// Attribute maps have no iteration order; the serializer must impose one.
	n := NewGroup()
	n.SetAttr("width", 10)
	n.SetAttr("x", 1)
	n.SetAttr("height", 20)
	n.SetAttr("y", 2)

	first := Serialize([]*VisualNode{n})
	for i := 0; i < 50; i++ {
		if got := Serialize([]*VisualNode{n}); got != first {
			t.Fatalf("serialization differs across runs:\n%s\nvs:\n%s", first, got)
		}
	}
}

func TestSerializeSelfClosing(t *testing.T) {
	got := Serialize([]*VisualNode{NewCircle(5, 5, 3)})
	want := "<circle cx=\"5\" cy=\"5\" r=\"3\"/>\n"
	if got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestFormatNum(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{15, "15"},
		{-3, "-3"},
		{2.5, "2.5"},
		{0.125, "0.125"},
	}
	for _, tt := range tests {
		if got := formatNum(tt.v); got != tt.want {
			t.Errorf("formatNum(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
