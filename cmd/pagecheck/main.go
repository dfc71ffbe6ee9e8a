// pagecheck is a one-shot diagnostic: fetch the dashboard's login page
// and report whether it rendered, is stuck on its loading screen, or
// returned something unrecognizable.
//
// Usage: pagecheck [url]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/incomeclarity/prices-backend/internal/probe"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "overall probe timeout")
	flag.Parse()

	_ = godotenv.Load()

	url := "http://localhost:3000/auth/login"
	if v := os.Getenv("PROBE_URL"); v != "" {
		url = v
	}
	if flag.NArg() > 0 {
		url = flag.Arg(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Printf("[PAGECHECK] Fetching %s ...\n", url)

	result, err := probe.New().Check(ctx, url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[PAGECHECK] %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("[PAGECHECK] demo login button: %v\n", result.HasDemoLogin)
	fmt.Printf("[PAGECHECK] loading indicator: %v\n", result.HasLoading)
	fmt.Printf("[PAGECHECK] login form:        %v\n", result.HasLoginForm)

	switch result.Verdict {
	case probe.VerdictRendered:
		fmt.Println("[PAGECHECK] Page rendered successfully")
	case probe.VerdictStuckLoading:
		fmt.Println("[PAGECHECK] Page is STUCK on the loading screen")
		os.Exit(1)
	default:
		fmt.Println("[PAGECHECK] Page state could not be determined")
		os.Exit(1)
	}
}
