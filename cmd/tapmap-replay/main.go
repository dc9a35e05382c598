// tapmap-replay is a stand-in click observer: it replays a JSON click
// script to stdout in the "<x>,<y>" wire format the input bridge expects,
// and echoes anything received on stdin to stderr. Use it to drive a
// tapmap.Surface without a platform-specific observer, e.g.:
//
//	tapmap-replay -script clicks.json -loop 0
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pixelglue/tapmap"
)

func main() {
	scriptPath := flag.String("script", "", "path to a JSON click script (default: read the script from stdin)")
	loop := flag.Int("loop", 1, "number of times to replay the script (0 = forever)")
	flag.Parse()

	var data []byte
	var err error
	if *scriptPath != "" {
		data, err = os.ReadFile(*scriptPath)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "tapmap-replay: %v\n", err)
		os.Exit(1)
	}

	script, err := tapmap.LoadClickScript(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tapmap-replay: %v\n", err)
		os.Exit(1)
	}

	// Stdin doubles as the bridge's signaling channel, but only when it is
	// not already consumed by the script itself.
	if *scriptPath != "" {
		go echoStdin()
	}

	for i := 0; *loop == 0 || i < *loop; i++ {
		if err := script.Replay(os.Stdout, nil); err != nil {
			fmt.Fprintf(os.Stderr, "tapmap-replay: %v\n", err)
			os.Exit(1)
		}
	}
}

// echoStdin surfaces bridge-to-observer messages on stderr so a developer
// watching the session can see them.
func echoStdin() {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		fmt.Fprintf(os.Stderr, "tapmap-replay: recv %q\n", sc.Text())
	}
}
