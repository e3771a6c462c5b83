// Command rate computes rating deltas for one match read as JSON from a file
// or stdin, without running the HTTP service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	service "github.com/okian/kickrate/internal/app"
	"github.com/okian/kickrate/internal/config"
	"github.com/okian/kickrate/internal/domain/model"
	"github.com/okian/kickrate/pkg/logger"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "rate:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("rate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		inFile  = fs.String("in", "-", "Match JSON file, - for stdin")
		cfgFile = fs.String("config", "", "Optional YAML config with a rating section")
		pretty  = fs.Bool("pretty", false, "Indent the JSON output")
		verbose = fs.Bool("verbose", false, "Log engine details to stderr")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: rate [-in match.json] [-config kickrate.yaml] [-pretty] [-verbose]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return errUsage
	}

	if err := logger.Init(logger.WithOutput(stderr)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	level := "warn"
	if *verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	cfg, err := config.LoadFile(ctx, *cfgFile)
	if err != nil {
		return err
	}

	in, err := readMatch(*inFile, stdin)
	if err != nil {
		return err
	}

	svc := service.New(service.WithParams(cfg.Rating))
	res, err := svc.RateMatch(ctx, in)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(res)
}

func readMatch(path string, stdin io.Reader) (model.MatchInput, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return model.MatchInput{}, fmt.Errorf("open match: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in model.MatchInput
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return model.MatchInput{}, fmt.Errorf("decode match: %w", err)
	}
	return in, nil
}
