// endpointreg registers this host with the management server and prints the
// asset id the server assigns to it.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/spf13/pflag"

	"github.com/slashdevops/endpointreg"
	"github.com/slashdevops/endpointreg/internal/config"
	"github.com/slashdevops/endpointreg/internal/execctx"
	"github.com/slashdevops/endpointreg/internal/logging"
	"github.com/slashdevops/endpointreg/internal/version"
)

const applicationName = "endpointreg"

// Replaced in tests.
var (
	newCollector           = endpointreg.NewCollector
	detectExecutionContext = execctx.Detect
	initialRetryInterval   = 500 * time.Millisecond
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// options holds the command-line flags.
type options struct {
	configPath       string
	url              string
	token            string
	insecure         bool
	withProxy        bool
	installationMode string
	serviceName      string
	variant          string
	namespace        string
	retries          uint64
	logLevel         string
	logFormat        string
	jsonOutput       bool
	dryRun           bool
	showVersion      bool
	showVersionLong  bool
}

func newFlagSet(opts *options, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVarP(&opts.configPath, "config", "c", "", "path to the YAML configuration file")
	fs.StringVar(&opts.url, "url", "", "management server base URL")
	fs.StringVar(&opts.token, "token", "", "API token (or set "+config.TokenEnv+")")
	fs.BoolVar(&opts.insecure, "insecure", false, "skip server certificate verification")
	fs.BoolVar(&opts.withProxy, "with-proxy", false, "use HTTP_PROXY / HTTPS_PROXY from the environment")
	fs.StringVar(&opts.installationMode, "installation-mode", "", "agent installation mode")
	fs.StringVar(&opts.serviceName, "service-name", "", "agent service name")
	fs.StringVar(&opts.variant, "variant", "", "deployment variant: openaev or openbas")
	fs.StringVar(&opts.namespace, "namespace", "", "override the external reference namespace")
	fs.Uint64Var(&opts.retries, "retries", 0, "maximum registration attempts")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	fs.BoolVar(&opts.jsonOutput, "json", false, "print the result as JSON")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "print the registration request without sending it")
	fs.BoolVar(&opts.showVersion, "version", false, "show version information")
	fs.BoolVar(&opts.showVersionLong, "version.long", false, "show detailed version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "%s - register this endpoint with the management server\n\n", applicationName)
		fmt.Fprintf(stderr, "Usage:\n  %s [flags]\n\nFlags:\n", applicationName)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  %s --config /etc/endpointreg.yaml            Register using a config file\n", applicationName)
		fmt.Fprintf(stderr, "  %s --url https://aev.local --token T --json  Register and print JSON\n", applicationName)
		fmt.Fprintf(stderr, "  %s --variant openbas --dry-run                Show the legacy request body\n", applicationName)
	}

	return fs
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options

	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if opts.showVersion {
		fmt.Fprintln(stdout, version.Short(applicationName))
		return nil
	}

	if opts.showVersionLong {
		fmt.Fprintln(stdout, version.Long(applicationName))
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(fs, &opts, cfg)

	logger, err := logging.New(stderr, logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}

	variant, err := cfg.Variant()
	if err != nil {
		return err
	}

	collector := newCollector().WithLogger(logger)

	execCtx, err := detectExecutionContext(cfg.Agent.ServiceName, cfg.Agent.InstallationMode)
	if err != nil {
		return fmt.Errorf("detecting execution context: %w", err)
	}

	if opts.dryRun {
		identity, err := collector.Collect(ctx, variant)
		if err != nil {
			return err
		}
		return printJSON(stdout, endpointreg.NewRegistrationRequest(identity, execCtx, variant))
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := endpointreg.NewClient(cfg.Server.URL, cfg.Server.Token,
		endpointreg.WithInsecureTLS(cfg.Server.UnsecuredCertificate),
		endpointreg.WithProxyFromEnvironment(cfg.Server.WithProxy),
		endpointreg.WithClientLogger(logger),
	)
	if err != nil {
		return err
	}

	resp, err := register(ctx, logger, cfg.Retry, func() (*endpointreg.RegisterResponse, error) {
		return client.RegisterAgent(ctx, collector, execCtx, variant)
	})
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		return printJSON(stdout, resp)
	}

	fmt.Fprintln(stdout, resp.AssetID)

	return nil
}

// applyFlags overrides configuration values with the flags set on the
// command line.
func applyFlags(fs *pflag.FlagSet, opts *options, cfg *config.Config) {
	if fs.Changed("url") {
		cfg.Server.URL = opts.url
	}
	if fs.Changed("token") {
		cfg.Server.Token = opts.token
	}
	if fs.Changed("insecure") {
		cfg.Server.UnsecuredCertificate = opts.insecure
	}
	if fs.Changed("with-proxy") {
		cfg.Server.WithProxy = opts.withProxy
	}
	if fs.Changed("installation-mode") {
		cfg.Agent.InstallationMode = opts.installationMode
	}
	if fs.Changed("service-name") {
		cfg.Agent.ServiceName = opts.serviceName
	}
	if fs.Changed("variant") {
		cfg.Agent.Variant = opts.variant
	}
	if fs.Changed("namespace") {
		cfg.Agent.Namespace = opts.namespace
	}
	if fs.Changed("retries") {
		cfg.Retry.Attempts = opts.retries
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}
}

// register calls attempt with exponential backoff until it succeeds, fails
// permanently, or the retry budget is spent.
func register(ctx context.Context, logger *slog.Logger, retry config.RetryConfig, attempt func() (*endpointreg.RegisterResponse, error)) (*endpointreg.RegisterResponse, error) {
	var resp *endpointreg.RegisterResponse

	operation := func() error {
		r, err := attempt()
		if err != nil {
			if isPermanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}

		resp = r
		return nil
	}

	boff := backoff.NewExponentialBackOff()
	boff.InitialInterval = initialRetryInterval
	boff.MaxElapsedTime = retry.MaxElapsed

	var attempts uint64
	if retry.Attempts > 0 {
		attempts = retry.Attempts - 1
	}
	bctx := backoff.WithContext(backoff.WithMaxRetries(boff, attempts), ctx)

	notify := func(err error, wait time.Duration) {
		logger.Warn("registration failed, retrying", "error", err, "wait", wait)
	}

	if err := backoff.RetryNotify(operation, bctx, notify); err != nil {
		return nil, err
	}

	return resp, nil
}

// isPermanent reports whether retrying err cannot succeed. Collection
// failures and client errors are permanent; timeouts and throttling are not.
func isPermanent(err error) bool {
	if errors.Is(err, endpointreg.ErrCollection) {
		return true
	}

	var apiErr *endpointreg.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return false
		}
		return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
	}

	return false
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}
