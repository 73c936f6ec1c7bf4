// Command storefront is the shopper's side of the food order service: it
// browses the menu, keeps a cart and a signed-in session on disk, and places
// orders.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"foodorder/internal/apiclient"
	"foodorder/internal/localstore"
	"foodorder/internal/logger"
)

func main() {
	_ = godotenv.Load()

	statePath, err := localstore.DefaultPath()
	if err != nil {
		statePath = "foodorder-state.json"
	}

	fs := flag.NewFlagSet("storefront", flag.ExitOnError)
	apiURL := fs.String("api", getEnv("API_URL", "http://localhost:3000"), "base URL of the food order API")
	state := fs.String("state", getEnv("STATE_FILE", statePath), "file holding the cart and session")
	logLevel := fs.String("l", getEnv("LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")
	fs.Usage = usage(fs)
	_ = fs.Parse(os.Args[1:])

	logger.New(*logLevel, "text")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(apiclient.New(*apiURL), localstore.NewFile(*state), os.Stdout)
	if err := a.run(ctx, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		out := fs.Output()
		fmt.Fprintln(out, "usage: storefront [flags] <command> [args]")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "commands:")
		fmt.Fprintln(out, "  meals [-search s] [-category c] [-price all|low|medium|high] [-sort order]")
		fmt.Fprintln(out, "  cart [show | add <meal-id> | remove <meal-id> | clear]")
		fmt.Fprintln(out, "  signup -email e -password p -name n")
		fmt.Fprintln(out, "  login -email e -password p")
		fmt.Fprintln(out, "  logout")
		fmt.Fprintln(out, "  whoami")
		fmt.Fprintln(out, "  checkout -street s -postal-code c -city c [-name n] [-email e]")
		fmt.Fprintln(out, "  orders")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "flags:")
		fs.PrintDefaults()
	}
}

// describe prefers the server's own message for API failures.
func describe(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
