package tapmap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseClick parses one raw observer line of the form "<x>,<y>". ok is
// false for anything other than exactly two integer components; malformed
// payloads are expected noise from the observer, not an error condition.
func ParseClick(line string) (x, y int, ok bool) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	y, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return x, y, true
}

// Dispatch routes one raw observer line against a registry snapshot and
// returns the region that consumed it, or nil.
//
// The scan is first-match-wins: regions are tested in declaration order and
// the first hit ends the scan; a later overlapping region never sees the
// event. A callback that panics is contained and logged; the event
// still counts as consumed — only the handler's side effect failed. The
// registry is read, never mutated, so the snapshot stays self-consistent
// for the whole scan even if a rebuild is published concurrently.
func Dispatch(reg *Registry, line string) *Region {
	x, y, ok := ParseClick(line)
	if !ok || reg == nil {
		return nil
	}
	r := reg.HitTest(float64(x), float64(y))
	if r == nil {
		return nil
	}
	invokeCallback(r, x, y)
	return r
}

// invokeCallback runs a region's callback with panic containment.
func invokeCallback(r *Region, x, y int) {
	defer func() {
		if rec := recover(); rec != nil {
			_, _ = fmt.Fprintf(os.Stderr,
				"[tapmap] click handler panic at (%d,%d): %v\n", x, y, rec)
		}
	}()
	r.Callback(ClickContext{Node: r.node, X: x, Y: y})
}
