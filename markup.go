package tapmap

import (
	"sort"
	"strconv"
	"strings"
)

// markupTag maps a node kind to its serialized element name.
func markupTag(k NodeKind) string {
	switch k {
	case KindGroup:
		return "div"
	case KindText:
		return "span"
	case KindImage:
		return "img"
	default:
		return k.String()
	}
}

// Serialize emits the visual tree as markup for the host container.
//
// Attributes are written in sorted order so identical trees always produce
// identical markup; the registry generation built from the same tree is
// what actually decides interactivity, the markup only has to be a
// well-formed document for the host to render.
func Serialize(roots []*VisualNode) string {
	var sb strings.Builder
	for _, n := range roots {
		writeNode(&sb, n, 0)
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, n *VisualNode, depth int) {
	indent := strings.Repeat("  ", depth)
	tag := markupTag(n.Kind)

	sb.WriteString(indent)
	sb.WriteByte('<')
	sb.WriteString(tag)

	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteString(`="`)
		sb.WriteString(formatNum(n.Attrs[name]))
		sb.WriteByte('"')
	}

	if len(n.Points) > 0 {
		sb.WriteString(` points="`)
		for i, p := range n.Points {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(formatNum(p.X))
			sb.WriteByte(',')
			sb.WriteString(formatNum(p.Y))
		}
		sb.WriteByte('"')
	}

	extras := make([]string, 0, len(n.Extra))
	for name := range n.Extra {
		extras = append(extras, name)
	}
	sort.Strings(extras)
	for _, name := range extras {
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteString(`="`)
		sb.WriteString(escapeMarkup(n.Extra[name]))
		sb.WriteByte('"')
	}

	if n.Text == "" && len(n.children) == 0 {
		sb.WriteString("/>\n")
		return
	}

	sb.WriteByte('>')
	if n.Text != "" {
		sb.WriteString(escapeMarkup(n.Text))
	}
	if len(n.children) > 0 {
		sb.WriteByte('\n')
		for _, child := range n.children {
			writeNode(sb, child, depth+1)
		}
		sb.WriteString(indent)
	}
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteString(">\n")
}

// formatNum renders a float attribute without a trailing ".0" for integral
// values.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeMarkup(s string) string {
	return markupEscaper.Replace(s)
}
