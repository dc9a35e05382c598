package tapmap

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SpawnError reports that the observer process could not be started. It is
// fatal to the session's click routing and is surfaced to the caller rather
// than retried.
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn observer %q: %v", e.Program, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Bridge supervises a single long-lived observer process and exposes its
// stdout as a stream of raw event lines plus a send channel into its stdin.
// The bridge moves bytes in both directions and nothing else: it never
// parses coordinates — interpretation is the dispatcher's job.
//
// The observer is expected to poll for the lifetime of the host session.
// The bridge does not restart it on exit; Wait exposes the exit so the
// session owner can pick a policy.
type Bridge struct {
	program string
	cmd     *exec.Cmd
	cancel  context.CancelFunc

	stdin   io.WriteCloser
	writeMu sync.Mutex

	events chan string

	quit      chan struct{}
	closeOnce sync.Once
	done      chan struct{}
	exitErr   error
}

// StartBridge launches the observer program with the given arguments.
//
// Every line the observer writes to stdout is delivered on Events in
// arrival order; partial writes are buffered and assembled into whole lines
// first — one write does not have to equal one event. Lines written to the
// observer's stderr are handed to onDiag (which may be nil) and never
// terminate the bridge. A process that cannot be created fails with
// *SpawnError.
func StartBridge(program string, args []string, onDiag func(string)) (*Bridge, error) {
	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, program, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, &SpawnError{Program: program, Err: fmt.Errorf("stdin pipe: %w", err)}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, &SpawnError{Program: program, Err: fmt.Errorf("stdout pipe: %w", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, &SpawnError{Program: program, Err: fmt.Errorf("stderr pipe: %w", err)}
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, &SpawnError{Program: program, Err: err}
	}

	b := &Bridge{
		program: program,
		cmd:     cmd,
		cancel:  cancel,
		stdin:   stdin,
		events:  make(chan string, 64),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	var grp errgroup.Group
	grp.Go(func() error {
		return forwardLines(stdout, b.emit)
	})
	grp.Go(func() error {
		return forwardLines(stderr, func(line string) {
			if onDiag != nil {
				onDiag(line)
			}
		})
	})
	go func() {
		_ = grp.Wait()
		b.exitErr = cmd.Wait()
		close(b.events)
		close(b.done)
	}()
	return b, nil
}

// emit delivers one event line unless the bridge is closing.
func (b *Bridge) emit(line string) {
	select {
	case b.events <- line:
	case <-b.quit:
	}
}

// forwardLines assembles whole lines from r and hands them to fn.
func forwardLines(r io.Reader, fn func(string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		fn(sc.Text())
	}
	return sc.Err()
}

// Events returns the stream of raw observer lines, in the order the
// observer reported them. The channel is closed after the observer exits
// and its remaining output has been delivered.
func (b *Bridge) Events() <-chan string {
	return b.events
}

// Send writes a newline-terminated message to the observer's stdin. Empty
// messages are dropped. Writes are best-effort: there is no acknowledgment
// contract, and a failed write is ignored.
func (b *Bridge) Send(msg string) {
	if msg == "" {
		return
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	_, _ = fmt.Fprintf(b.stdin, "%s\n", msg)
}

// Wait blocks until the observer exits and returns its exit error.
func (b *Bridge) Wait() error {
	<-b.done
	return b.exitErr
}

// Close tears the bridge down: the observer's stdin is closed and the
// process is terminated through context cancellation. Safe to call more
// than once.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.writeMu.Lock()
		_ = b.stdin.Close()
		b.writeMu.Unlock()
		b.cancel()
	})
	<-b.done
	return nil
}
