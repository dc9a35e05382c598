package tapmap

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// Renderer converts markup into a base64-encoded raster for embedding. The
// call is synchronous from the regeneration path's point of view.
type Renderer interface {
	RenderToImage(markup string, width, height int) (string, error)
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(markup string, width, height int) (string, error)

func (f RendererFunc) RenderToImage(markup string, width, height int) (string, error) {
	return f(markup, width, height)
}

// Publisher receives each published generation. The host container renders
// the markup and reports its loading state back through Surface.SetLoading.
type Publisher interface {
	Publish(markup string, loading bool)
}

// SurfaceConfig configures a Surface.
type SurfaceConfig struct {
	// Width and Height are the raster dimensions handed to the Renderer.
	Width, Height int

	// WaitUntilLoaded defers regeneration entirely while the host reports
	// loading, instead of publishing partial content. The most recent tree
	// handed to SetTree during loading is regenerated once loading clears.
	WaitUntilLoaded bool

	// Renderer rasterizes each generation's markup. Optional: without one
	// the surface publishes markup only.
	Renderer Renderer

	// Publisher receives each published generation. Optional.
	Publisher Publisher

	// Observer is the external click-observation program started by
	// StartObserver, with ObserverArgs as its arguments.
	Observer     string
	ObserverArgs []string

	// OnObserverError receives lines from the observer's stderr. Optional.
	OnObserverError func(string)
}

// generation pairs the serialized markup, the optional raster, and the
// registry built from the same tree. It is published as one immutable unit
// so a consumer can never observe markup from one generation with a
// registry from another.
type generation struct {
	markup   string
	image    string
	registry *Registry
}

// Surface keeps the serialized markup and the click registry in lockstep
// with the latest visual tree, and routes observer clicks to node
// callbacks. One Surface corresponds to one host-surface session: its
// observer bridge is started at most once and lives until Close.
type Surface struct {
	cfg SurfaceConfig

	current atomic.Pointer[generation]
	loading atomic.Bool

	mu      sync.Mutex // guards pending and regeneration
	pending []*VisualNode

	bridgeOnce sync.Once
	bridge     *Bridge
	bridgeErr  error
}

// NewSurface creates a surface for one host session.
func NewSurface(cfg SurfaceConfig) *Surface {
	return &Surface{cfg: cfg}
}

// SetPublisher sets the generation consumer. Must be called before the
// first SetTree when the publisher cannot be constructed ahead of the
// surface (hosts usually need the surface first).
func (s *Surface) SetPublisher(p Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Publisher = p
}

// SetTree accepts a new visual tree and regenerates markup and registry
// from it. The two are published atomically. A tree whose interactive nodes
// lack resolvable geometry fails with *MissingGeometryError and leaves the
// previous generation authoritative.
//
// When WaitUntilLoaded is set and the host currently reports loading, the
// tree is held back and regenerated when loading clears; only the most
// recent deferred tree is kept.
func (s *Surface) SetTree(roots []*VisualNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.WaitUntilLoaded && s.loading.Load() {
		s.pending = roots
		return nil
	}
	return s.regenerateLocked(roots)
}

// regenerateLocked rebuilds and publishes one generation. Callers hold s.mu.
func (s *Surface) regenerateLocked(roots []*VisualNode) error {
	registry, err := BuildRegistry(roots)
	if err != nil {
		return err
	}
	markup := Serialize(roots)

	var image string
	if s.cfg.Renderer != nil {
		image, err = s.cfg.Renderer.RenderToImage(markup, s.cfg.Width, s.cfg.Height)
		if err != nil {
			// A failed raster must not take click routing down with it.
			_, _ = fmt.Fprintf(os.Stderr, "[tapmap] render: %v\n", err)
			image = ""
		}
	}

	s.current.Store(&generation{markup: markup, image: image, registry: registry})
	if s.cfg.Publisher != nil {
		s.cfg.Publisher.Publish(markup, s.loading.Load())
	}
	return nil
}

// SetLoading records the host-reported loading flag. Clearing it replays a
// tree deferred by WaitUntilLoaded, returning any regeneration error.
func (s *Surface) SetLoading(loading bool) error {
	s.loading.Store(loading)
	if loading {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	roots := s.pending
	s.pending = nil
	return s.regenerateLocked(roots)
}

// Loading reports the current host-reported loading flag.
func (s *Surface) Loading() bool {
	return s.loading.Load()
}

// Markup returns the current generation's serialized markup.
func (s *Surface) Markup() string {
	if gen := s.current.Load(); gen != nil {
		return gen.markup
	}
	return ""
}

// Image returns the current generation's base64 raster, or "" when no
// renderer is configured or the last render failed.
func (s *Surface) Image() string {
	if gen := s.current.Load(); gen != nil {
		return gen.image
	}
	return ""
}

// Registry returns the current generation's region registry, or nil before
// the first successful SetTree. The returned registry is a frozen snapshot.
func (s *Surface) Registry() *Registry {
	if gen := s.current.Load(); gen != nil {
		return gen.registry
	}
	return nil
}

// StartObserver launches the configured observer program through the input
// bridge and begins routing its clicks. The bridge is started at most once
// per surface session regardless of how many generations come and go;
// subsequent calls return the first call's outcome. Observer exit is
// terminal for the session's click routing — no restart is attempted.
func (s *Surface) StartObserver() error {
	s.bridgeOnce.Do(func() {
		if s.cfg.Observer == "" {
			s.bridgeErr = fmt.Errorf("start observer: no observer program configured")
			return
		}
		bridge, err := StartBridge(s.cfg.Observer, s.cfg.ObserverArgs, s.cfg.OnObserverError)
		if err != nil {
			s.bridgeErr = err
			return
		}
		s.bridge = bridge
		go s.routeClicks(bridge)
	})
	return s.bridgeErr
}

// Bridge returns the running observer bridge, or nil before StartObserver
// succeeds. Useful for Send and Wait.
func (s *Surface) Bridge() *Bridge {
	return s.bridge
}

// routeClicks consumes bridge events in arrival order until the observer
// exits. Each event is dispatched against the registry snapshot current at
// that moment; a rebuild published mid-stream only affects later events.
func (s *Surface) routeClicks(bridge *Bridge) {
	for line := range bridge.Events() {
		s.HandleEvent(line)
	}
}

// HandleEvent routes one raw observer line against the current generation's
// registry. The snapshot is captured once per event, so a concurrent
// rebuild never changes the registry mid-scan.
func (s *Surface) HandleEvent(line string) {
	gen := s.current.Load()
	if gen == nil {
		return
	}
	Dispatch(gen.registry, line)
}

// Click is a convenience for in-process click sources (hosts with native
// input): it routes the coordinate as if the observer had reported it.
func (s *Surface) Click(x, y int) {
	s.HandleEvent(fmt.Sprintf("%d,%d", x, y))
}

// Close tears down the session. A running observer bridge is terminated.
func (s *Surface) Close() error {
	if s.bridge != nil {
		return s.bridge.Close()
	}
	return nil
}
