// verify-startup loads the dev server page in a headless Chrome, waits for
// the application root element, prints the page title, and saves a
// screenshot. Exit code 1 when the page never renders.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tissaia/tissaia/internal/verify"
)

func main() {
	url := flag.String("url", "http://localhost:5173/", "Dev server URL to verify")
	selector := flag.String("selector", "#root", "Element that must attach before the page counts as loaded")
	outDir := flag.String("out", "verification", "Screenshot directory")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall verification timeout")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()

	title, err := verify.Run(context.Background(), verify.Config{
		URL:      *url,
		Selector: *selector,
		OutDir:   *outDir,
		Timeout:  *timeout,
	}, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during verification: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Page title: %s\n", title)
}
