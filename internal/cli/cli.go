package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	goflags "github.com/jessevdk/go-flags"
)

// buildParser constructs the go-flags parser bound to a fresh Options.
func buildParser() (*goflags.Parser, *Options) {
	var opts Options

	// Errors are returned to main for printing; only help is written here.
	parser := goflags.NewParser(&opts, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "phishurl"
	parser.LongDescription = "Load the phishing URL CSV lists under a root directory into a single SQLite file."

	return parser, &opts
}

// Run is the main entry point for the phishurl CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and performs a load.
func RunWithArgs(version string, args []string) error {
	parser, opts := buildParser()

	var rest []string
	var err error
	if args != nil {
		rest, err = parser.ParseArgs(args)
	} else {
		rest, err = parser.Parse()
	}

	if err != nil {
		var flagsErr *goflags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == goflags.ErrHelp {
			fmt.Println(flagsErr.Message)
			return nil
		}
		return err
	}

	if opts.Version {
		fmt.Printf("phishurl %s\n", version)
		return nil
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %q", rest)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return execute(ctx, opts, os.Stdout, os.Stderr)
}

