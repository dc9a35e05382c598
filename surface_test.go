package tapmap

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordPublisher captures every published generation.
type recordPublisher struct {
	mu    sync.Mutex
	calls []publishCall
}

type publishCall struct {
	markup  string
	loading bool
}

func (p *recordPublisher) Publish(markup string, loading bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, publishCall{markup: markup, loading: loading})
}

func (p *recordPublisher) snapshot() []publishCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishCall(nil), p.calls...)
}

// interactiveTree builds a single wide clickable box reporting into hits.
func interactiveTree(hits chan<- ClickContext) []*VisualNode {
	box := NewBox(0, 0, 400, 400)
	box.OnClick = func(ctx ClickContext) {
		if hits != nil {
			hits <- ctx
		}
	}
	return []*VisualNode{box}
}

func TestSurfacePublishesMarkupAndRegistryTogether(t *testing.T) {
	pub := &recordPublisher{}
	s := NewSurface(SurfaceConfig{Width: 400, Height: 400, Publisher: pub})

	require.NoError(t, s.SetTree(interactiveTree(nil)))

	calls := pub.snapshot()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].markup, "<div")
	assert.False(t, calls[0].loading)

	// Accessors reflect the same generation the publisher saw.
	assert.Equal(t, calls[0].markup, s.Markup())
	require.NotNil(t, s.Registry())
	assert.Equal(t, 1, s.Registry().Len())
}

func TestSurfaceRendererOutputTracksGeneration(t *testing.T) {
	var rendered []string
	s := NewSurface(SurfaceConfig{
		Width:  640,
		Height: 480,
		Renderer: RendererFunc(func(markup string, width, height int) (string, error) {
			rendered = append(rendered, markup)
			return fmt.Sprintf("raster-%d", len(rendered)), nil
		}),
	})

	require.NoError(t, s.SetTree(interactiveTree(nil)))
	assert.Equal(t, "raster-1", s.Image())
	require.Len(t, rendered, 1)
	assert.Equal(t, s.Markup(), rendered[0])

	require.NoError(t, s.SetTree(interactiveTree(nil)))
	assert.Equal(t, "raster-2", s.Image())
}

func TestSurfaceRendererFailureKeepsRouting(t *testing.T) {
	s := NewSurface(SurfaceConfig{
		Width:  100,
		Height: 100,
		Renderer: RendererFunc(func(string, int, int) (string, error) {
			return "", fmt.Errorf("rasterizer offline")
		}),
	})

	hits := make(chan ClickContext, 1)
	require.NoError(t, s.SetTree(interactiveTree(hits)))

	assert.Empty(t, s.Image())
	require.NotNil(t, s.Registry(), "a failed raster must not block the registry")

	s.Click(50, 50)
	select {
	case <-hits:
	default:
		t.Fatal("click was not routed after a renderer failure")
	}
}

func TestSurfaceWaitUntilLoadedDefersRegeneration(t *testing.T) {
	pub := &recordPublisher{}
	s := NewSurface(SurfaceConfig{WaitUntilLoaded: true, Publisher: pub})

	require.NoError(t, s.SetLoading(true))
	require.NoError(t, s.SetTree(interactiveTree(nil)))

	assert.Empty(t, pub.snapshot(), "loading content must not be published")
	assert.Nil(t, s.Registry())

	require.NoError(t, s.SetLoading(false))
	require.Len(t, pub.snapshot(), 1)
	require.NotNil(t, s.Registry())
}

func TestSurfaceWaitUntilLoadedKeepsLatestTree(t *testing.T) {
	s := NewSurface(SurfaceConfig{WaitUntilLoaded: true})
	require.NoError(t, s.SetLoading(true))

	// Two trees arrive during loading; only the newest one matters.
	one := interactiveTree(nil)
	require.NoError(t, s.SetTree(one))

	two := interactiveTree(nil)
	extra := NewCircle(50, 50, 20)
	extra.OnClick = func(ClickContext) {}
	two[0].AddChild(extra)
	require.NoError(t, s.SetTree(two))

	require.NoError(t, s.SetLoading(false))
	require.NotNil(t, s.Registry())
	assert.Equal(t, 2, s.Registry().Len())
}

func TestSurfaceBadTreeKeepsPreviousGeneration(t *testing.T) {
	pub := &recordPublisher{}
	s := NewSurface(SurfaceConfig{Publisher: pub})

	require.NoError(t, s.SetTree(interactiveTree(nil)))
	goodMarkup := s.Markup()

	bad := NewText("no geometry")
	bad.OnClick = func(ClickContext) {}
	err := s.SetTree([]*VisualNode{bad})
	require.Error(t, err)

	var mg *MissingGeometryError
	require.ErrorAs(t, err, &mg)

	// The previous generation stays authoritative.
	assert.Equal(t, goodMarkup, s.Markup())
	require.NotNil(t, s.Registry())
	assert.Equal(t, 1, s.Registry().Len())
	assert.Len(t, pub.snapshot(), 1)
}

func TestSurfaceClickRoutesThroughCurrentRegistry(t *testing.T) {
	s := NewSurface(SurfaceConfig{})
	hits := make(chan ClickContext, 2)
	require.NoError(t, s.SetTree(interactiveTree(hits)))

	s.Click(100, 100)
	select {
	case ctx := <-hits:
		assert.Equal(t, 100, ctx.X)
		assert.Equal(t, 100, ctx.Y)
	default:
		t.Fatal("click was not routed")
	}

	// Inside the embed margin dead zone: silently dropped.
	s.Click(5, 5)
	select {
	case <-hits:
		t.Fatal("margin dead zone click was routed")
	default:
	}
}

func TestSurfaceEventBeforeFirstTreeIsDropped(t *testing.T) {
	s := NewSurface(SurfaceConfig{})
	require.NotPanics(t, func() { s.HandleEvent("10,10") })
}

func TestSurfaceObserverRoutesClicks(t *testing.T) {
	hits := make(chan ClickContext, 4)
	s := NewSurface(SurfaceConfig{
		Observer:     os.Args[0],
		ObserverArgs: helperArgs("emit"),
	})
	require.NoError(t, s.SetTree(interactiveTree(hits)))

	require.NoError(t, s.StartObserver())
	// Starting again is a no-op: the bridge belongs to the session.
	require.NoError(t, s.StartObserver())
	defer s.Close()

	// The emit observer reports "1,2" (inside the margin dead zone, no
	// match) and "30,40" (a hit): exactly one callback fires.
	select {
	case ctx := <-hits:
		assert.Equal(t, 30, ctx.X)
		assert.Equal(t, 40, ctx.Y)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for an observer click")
	}

	require.NoError(t, s.Bridge().Wait())
	select {
	case ctx := <-hits:
		t.Fatalf("unexpected extra callback at (%d,%d)", ctx.X, ctx.Y)
	default:
	}
}

func TestSurfaceObserverSpawnErrorIsSticky(t *testing.T) {
	s := NewSurface(SurfaceConfig{Observer: "/nonexistent/observer-binary"})

	err := s.StartObserver()
	require.Error(t, err)
	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)

	// The session does not retry: the same failure is reported again.
	assert.Same(t, err, s.StartObserver())
}

func TestSurfaceObserverUnconfigured(t *testing.T) {
	s := NewSurface(SurfaceConfig{})
	err := s.StartObserver()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no observer program configured"))
}
