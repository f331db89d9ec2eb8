// Package commands implements CLI command handlers for gitbloat.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/gitbloat/pkg/blobclass"
	"github.com/Sumatoshi-tech/gitbloat/pkg/bloat"
	"github.com/Sumatoshi-tech/gitbloat/pkg/config"
	"github.com/Sumatoshi-tech/gitbloat/pkg/observability"
	"github.com/Sumatoshi-tech/gitbloat/pkg/report"
	"github.com/Sumatoshi-tech/gitbloat/pkg/reporoot"
	"github.com/Sumatoshi-tech/gitbloat/pkg/version"
)

// ScanCommand holds the flags of the scan command.
type ScanCommand struct {
	configPath   string
	path         string
	show         int
	format       string
	detector     string
	marker       string
	strictMarker bool
	noColor      bool
	metricsFile  string
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	sc := &ScanCommand{}

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Rank the largest blobs of a repository",
		Long: `Locate the repository containing path, read every object in its object
database and print the largest blobs with aggregate blob and tree counts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: sc.run,
	}

	cmd.Flags().StringVar(&sc.configPath, "config", "", "Config file (default: .gitbloat.yaml in CWD or $HOME)")
	cmd.Flags().StringVarP(&sc.path, "path", "p", ".", "Directory inside the repository to scan")
	cmd.Flags().IntVarP(&sc.show, "show", "n", config.DefaultScanShow, "Number of largest blobs to list")
	cmd.Flags().StringVarP(&sc.format, "format", "f", config.DefaultOutputFormat, "Output format: text, json, yaml, html")
	cmd.Flags().StringVar(&sc.detector, "detector", config.DefaultScanDetector, "Binary detector: enry, nul")
	cmd.Flags().StringVar(&sc.marker, "marker", config.DefaultLocatorMarker, "Entry name marking a repository root")
	cmd.Flags().BoolVar(&sc.strictMarker, "strict-marker", false, "Require the root marker to be a directory")
	cmd.Flags().BoolVar(&sc.noColor, "no-color", false, "Disable colored text output")
	cmd.Flags().StringVar(&sc.metricsFile, "metrics-file", "", "Write scan metrics in Prometheus textfile format")

	return cmd
}

func (sc *ScanCommand) run(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		sc.path = args[0]
	}

	cfg, err := config.Load(sc.configPath)
	if err != nil {
		return err
	}

	sc.applyFlags(cmd, cfg)

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return runScan(cmd.Context(), cfg, sc.path, cmd.OutOrStdout())
}

// applyFlags overrides config values with explicitly set flags.
func (sc *ScanCommand) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("show") {
		cfg.Scan.Show = sc.show
	}

	if flags.Changed("format") {
		cfg.Output.Format = sc.format
	}

	if flags.Changed("detector") {
		cfg.Scan.Detector = sc.detector
	}

	if flags.Changed("marker") {
		cfg.Locator.Marker = sc.marker
	}

	if sc.strictMarker {
		cfg.Locator.StrictDir = true
	}

	if sc.noColor {
		cfg.Output.Color = false
	}

	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = sc.metricsFile
	}
}

func runScan(ctx context.Context, cfg *config.Config, path string, out io.Writer) (retErr error) {
	locateOpts := []reporoot.Option{reporoot.WithMarker(cfg.Locator.Marker)}
	if cfg.Locator.StrictDir {
		locateOpts = append(locateOpts, reporoot.WithStrictDir())
	}

	root, err := reporoot.Locate(path, locateOpts...)
	if err != nil {
		return err
	}

	detector, err := blobclass.ByName(cfg.Scan.Detector)
	if err != nil {
		return err
	}

	providers, err := observability.Init(observabilityConfig(cfg))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		retErr = errors.Join(retErr, providers.Shutdown(context.WithoutCancel(ctx)))
	}()

	metrics, err := observability.NewScanMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init scan metrics: %w", err)
	}

	engine, err := bloat.Open(root,
		bloat.WithLimit(cfg.RankingLimit()),
		bloat.WithDetector(detector),
		bloat.WithLogger(providers.Logger),
		bloat.WithTracer(providers.Tracer),
		bloat.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	defer engine.Close()

	err = engine.Enumerate(ctx)
	if err != nil {
		return err
	}

	rep := report.FromEngine(root, engine, cfg.Scan.Show)

	err = report.Write(out, rep, cfg.Output.Format, report.Options{Color: cfg.Output.Color})
	if err != nil {
		return err
	}

	if cfg.Metrics.Textfile != "" {
		err = observability.WriteTextfile(cfg.Metrics.Textfile, providers.Registry)
		if err != nil {
			return err
		}
	}

	return nil
}

func observabilityConfig(cfg *config.Config) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.LogLevel = observability.ParseLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	obsCfg.Prometheus = cfg.Metrics.Textfile != ""

	return obsCfg
}
