// Package tapmap routes pointer clicks on a statically rendered surface
// back to the visual elements that produced it.
//
// Some host containers can only display static markup or a pre-rendered
// image. tapmap makes such content interactive anyway: a visual tree is
// serialized for display, flattened into an ordered registry of
// hit-testable regions, and an external observer process reports raw click
// coordinates that a dispatcher maps back to the element the user meant to
// activate.
//
// # Quick start
//
//	surface := tapmap.NewSurface(tapmap.SurfaceConfig{
//		Width: 640, Height: 480,
//		Observer: "/usr/local/bin/click-observer",
//	})
//
//	button := tapmap.NewBox(20, 20, 200, 60)
//	button.OnClick = func(ctx tapmap.ClickContext) {
//		fmt.Println("button clicked at", ctx.X, ctx.Y)
//	}
//
//	if err := surface.SetTree([]*tapmap.VisualNode{button}); err != nil {
//		log.Fatal(err)
//	}
//	if err := surface.StartObserver(); err != nil {
//		log.Fatal(err)
//	}
//
// # Regions and priority
//
// Every node carrying an OnClick callback becomes one [Region]. Registry
// order is depth-first declaration order, and dispatch is first-match-wins:
// when regions overlap, the earliest declared one receives the click.
// Top-level siblings stack vertically, each occupying a band equal to its
// declared height, so a child's local coordinates are translated into the
// absolute space the observer reports.
//
// Six geometry variants are supported: explicit bounding boxes, circles,
// ellipses, arbitrary closed polygons (ray-cast), line segments, and toggle
// controls with a fixed hit zone. See [ShapeKind].
//
// # Generations
//
// Each call to [Surface.SetTree] produces one generation: serialized markup
// paired with the registry built from the same tree, published atomically.
// A dispatch in flight always sees one self-consistent registry; a rebuild
// only affects events that arrive after it.
//
// # The observer
//
// The observer is an external program that polls for clicks on the host
// window and writes one "<x>,<y>" line per click to stdout. [StartBridge]
// supervises it for the whole session; see cmd/tapmap-replay for a
// scripted stand-in. The reference host in package ebitenhost feeds native
// cursor clicks instead, which is handy during development.
package tapmap
