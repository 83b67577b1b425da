package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/harrisonrobin/ticktick-cli/pkg/cli"
	"github.com/harrisonrobin/ticktick-cli/pkg/config"
	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

func main() {
	os.Exit(run())
}

func run() int {
	config.LoadDotenv()
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := cli.NewApp(settings, os.Stdout, os.Stderr)
	root := cli.NewRootCommand(app)
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		return exitCode(ctx, err)
	}
	return 0
}

func exitCode(ctx context.Context, err error) int {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "Interrupted.")
		return 130
	}

	var confErr *ticktick.ConfigurationError
	if errors.As(err, &confErr) {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", confErr.Message)
		if len(confErr.Missing) > 0 {
			fmt.Fprintf(os.Stderr, "Missing environment variables: %s\n", strings.Join(confErr.Missing, ", "))
		}
		return 2
	}
	if cli.IsValidationError(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
