// Command meshguard runs the localizer over a NoC mesh and reports the
// endpoints it disabled.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/meshguard/config"
	"github.com/sarchlab/meshguard/report"
)

var (
	configFile   = flag.String("config", "", "YAML run configuration. Defaults apply when empty.")
	logFile      = flag.String("log", "", "Write JSON logs to this file instead of stdout.")
	reportFile   = flag.String("report", "", "Also save the report to this file.")
	featureDump  = flag.Bool("dump-features", false, "Print the feature vector of every port at the end of the run.")
	useMonitor   = flag.Bool("monitor", false, "Serve the akita monitor while simulating.")
	verboseLevel = flag.Bool("v", false, "Log at debug level regardless of the configuration.")
)

func main() {
	flag.Parse()

	c, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	if err := setupLogger(c); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	engine := sim.NewSerialEngine()
	builder := config.PlatformBuilder{}.
		WithEngine(engine).
		WithConfig(c)

	var monitor *monitoring.Monitor
	if *useMonitor {
		monitor = monitoring.NewMonitor()
		monitor.RegisterEngine(engine)
		builder = builder.WithMonitor(monitor)
	}

	p, err := builder.Build("MeshGuard")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	if monitor != nil {
		monitor.StartServer()
	}

	run(p)
}

func loadConfig() (*config.Config, error) {
	if *configFile == "" {
		return config.Default(), nil
	}

	return config.Load(*configFile)
}

func setupLogger(c *config.Config) error {
	level, err := c.Level()
	if err != nil {
		return err
	}

	if *verboseLevel {
		level = slog.LevelDebug
	}

	out := os.Stdout
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		atexit.Register(func() { f.Close() })
		out = f
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}

func run(p *config.Platform) {
	if err := p.Driver.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	if *featureDump && p.Predictor != nil {
		if err := p.Predictor.DumpFeatures(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	r := report.GenerateReport(p)
	r.WriteReport(os.Stdout)

	if *reportFile != "" {
		if err := r.SaveReportToFile(*reportFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			atexit.Exit(1)
		}
	}

	atexit.Exit(0)
}
