// Package app wires the components together: flags, configuration, the HTTP
// client, and the pagination session.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/miraclx/qparas/internal/config"
	"github.com/miraclx/qparas/internal/executor"
	"github.com/miraclx/qparas/internal/httpclient"
	"github.com/miraclx/qparas/internal/logging"
	"github.com/miraclx/qparas/internal/paginate"
	"github.com/miraclx/qparas/internal/progress"
	"github.com/miraclx/qparas/internal/query"
	"github.com/miraclx/qparas/internal/render"
)

// Sentinel errors for the application layer.
var (
	ErrUsage       = errors.New("usage error")
	ErrMissingPath = errors.New("missing endpoint path argument")
)

// fetcherFactory builds the Fetcher for a run. Injectable for tests.
type fetcherFactory func(cfg *config.Config, path string, logger zerolog.Logger) (paginate.Fetcher, error)

func defaultFetcherFactory(cfg *config.Config, path string, logger zerolog.Logger) (paginate.Fetcher, error) {
	client, err := httpclient.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return executor.New(client, cfg, path, logger), nil
}

// Runner encapsulates one invocation's execution and its dependencies.
type Runner struct {
	stdout     io.Writer
	stderr     io.Writer
	newFetcher fetcherFactory
}

// RunnerOpts allows overriding the Runner's dependencies.
type RunnerOpts struct {
	Stdout     io.Writer
	Stderr     io.Writer
	NewFetcher func(cfg *config.Config, path string, logger zerolog.Logger) (paginate.Fetcher, error)
}

// NewRunner creates a Runner with default dependencies.
func NewRunner() *Runner {
	return NewRunnerWithOpts(RunnerOpts{})
}

// NewRunnerWithOpts creates a Runner allowing dependency injection.
func NewRunnerWithOpts(opts RunnerOpts) *Runner {
	runner := &Runner{
		stdout:     opts.Stdout,
		stderr:     opts.Stderr,
		newFetcher: opts.NewFetcher,
	}
	if runner.stdout == nil {
		runner.stdout = os.Stdout
	}
	if runner.stderr == nil {
		runner.stderr = os.Stderr
	}
	if runner.newFetcher == nil {
		runner.newFetcher = defaultFetcherFactory
	}
	return runner
}

const usageText = `Usage:
  qparas [flags] <endpoint-path> [key=value ...]

Queries the Paras marketplace API, paginating until exhaustion, and prints
one unified JSON result on stdout. Progress is reported on stderr.

Flags:
  -config string
        YAML configuration file (default: $QPARAS_CONFIG if set)
  -loglevel string
        Logging level (none, error, warn, info, debug)
  -help
        Show help

Reserved query parameters:
  __sort=<field.path>::<direction>   sort key, also drives cursor derivation
  __min=<n>                          stop once n records were accepted
  __limit=<n>                        page size (default 30)

Environment:
  PARAS_URL      override the API base URL
  PARAS_TOKEN    bearer token when auth type "bearer" is configured
  QPARAS_CONFIG  configuration file path

Example:
  qparas token-series collection_id=mint.havendao.near __sort=lowest_price::1
`

// Usage prints the command-line help to the given writer.
func (r *Runner) Usage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// Run parses arguments and executes one complete pagination session.
func (r *Runner) Run(args []string) error {
	fs := flag.NewFlagSet("qparas", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configFile := fs.String("config", "", "YAML configuration file")
	logLevel := fs.String("loglevel", "", "Logging level (none, error, warn, info, debug)")
	helpFlag := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			r.Usage(r.stderr)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *helpFlag {
		r.Usage(r.stderr)
		return nil
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return ErrMissingPath
	}
	path, tokens := rest[0], rest[1:]

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}
	logger := logging.Setup(level, r.stderr)

	spec, err := query.Parse(tokens, cfg.Limit)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	logger.Debug().Str("path", path).Strs("params", spec.Params.Tokens()).Msg("parsed query")

	fetcher, err := r.newFetcher(cfg, path, logger)
	if err != nil {
		return err
	}

	session := paginate.NewSession(fetcher, progress.New(r.stderr), spec, logger)
	result, err := session.Run(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("pagination failed")
		return err
	}

	return render.Write(r.stdout, result.Value)
}
