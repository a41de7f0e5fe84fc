package config

import (
	"fmt"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/tracing"

	"github.com/sarchlab/meshguard/api"
	"github.com/sarchlab/meshguard/localizer"
	"github.com/sarchlab/meshguard/mesh"
	"github.com/sarchlab/meshguard/pe"
	"github.com/sarchlab/meshguard/predictor"
	"github.com/sarchlab/meshguard/telemetry"
)

// A Platform is everything a localization run needs. Predictor, Localizer and
// Tracer are nil when localization is disabled.
type Platform struct {
	Config    *Config
	Engine    sim.Engine
	Mesh      mesh.Mesh
	Store     *telemetry.Store
	Trace     *telemetry.Trace
	Endpoints *pe.Endpoints
	Predictor *predictor.FusionPredictor
	Localizer *localizer.Localizer
	Tracer    *tracing.AverageTimeTracer
	Driver    api.Driver
}

// Freq returns the frequency the platform is clocked at.
func (p *Platform) Freq() sim.Freq {
	return sim.Freq(p.Config.FreqGHz) * sim.GHz
}

// PlatformBuilder can build platforms.
type PlatformBuilder struct {
	engine   sim.Engine
	config   *Config
	stimulus localizer.Stimulus
	monitor  *monitoring.Monitor
}

// WithEngine sets the engine that drives the simulation.
func (b PlatformBuilder) WithEngine(engine sim.Engine) PlatformBuilder {
	b.engine = engine
	return b
}

// WithConfig sets the configuration.
func (b PlatformBuilder) WithConfig(c *Config) PlatformBuilder {
	b.config = c
	return b
}

// WithStimulus replaces the trigger of the configuration.
func (b PlatformBuilder) WithStimulus(s localizer.Stimulus) PlatformBuilder {
	b.stimulus = s
	return b
}

// WithMonitor sets the monitor that the driver registers with.
func (b PlatformBuilder) WithMonitor(monitor *monitoring.Monitor) PlatformBuilder {
	b.monitor = monitor
	return b
}

// Build creates a platform.
func (b PlatformBuilder) Build(name string) (*Platform, error) {
	c := b.config
	if c == nil {
		c = Default()
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	m := mesh.New(c.Mesh.Width, c.Mesh.Height)
	p := &Platform{
		Config:    c,
		Engine:    engine,
		Mesh:      m,
		Store:     telemetry.NewStore(m, c.VirtualChannels),
		Endpoints: pe.NewEndpoints(m.NumRouters()),
	}

	if c.HasTelemetryTrace() {
		trace, err := telemetry.LoadTraceFile(c.TelemetryTrace)
		if err != nil {
			return nil, err
		}

		if err := trace.Validate(m, c.VirtualChannels); err != nil {
			return nil, fmt.Errorf("%s: %w", c.TelemetryTrace, err)
		}
		p.Trace = trace
	}

	if c.Enabled() {
		if err := b.buildLocalizer(name, p); err != nil {
			return nil, err
		}
	}

	driverBuilder := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(p.Freq()).
		WithTelemetryFeed(api.TraceFeed{
			Store:     p.Store,
			Trace:     p.Trace,
			Endpoints: p.Endpoints,
		}).
		WithResetCycles(c.ResetCycles).
		WithMaxCycles(c.MaxCycles)
	if p.Localizer != nil {
		driverBuilder = driverBuilder.WithStepper(p.Localizer)
	}

	p.Driver = driverBuilder.Build(name + ".Driver")
	p.Endpoints.WithCycleCounter(p.Driver.Cycle)

	if b.monitor != nil {
		b.monitor.RegisterComponent(p.Driver)
	}

	return p, nil
}

func (b PlatformBuilder) buildLocalizer(name string, p *Platform) error {
	c := p.Config

	weights, err := predictor.LoadWeightsFile(c.WeightsFile)
	if err != nil {
		return err
	}

	operators, err := predictor.LoadOperatorsFile(c.OperatorsFile)
	if err != nil {
		return err
	}

	p.Predictor, err = predictor.MakeBuilder().
		WithMesh(p.Mesh).
		WithSource(p.Store).
		WithVirtualChannel(c.VirtualChannel).
		WithWeights(weights).
		WithOperators(operators).
		Build()
	if err != nil {
		return err
	}
	p.Predictor.LogTables()

	stimulus := b.stimulus
	if stimulus == nil && len(c.Trigger.Nodes) > 0 {
		stimulus = localizer.WindowStimulus{
			StartCycle: c.Trigger.StartCycle,
			Nodes:      c.Trigger.Nodes,
		}
	}

	p.Localizer = localizer.MakeBuilder().
		WithMesh(p.Mesh).
		WithPredictor(p.Predictor).
		WithDisabler(p.Endpoints).
		WithStimulus(stimulus).
		WithTimeout(c.Timeout).
		Build(name + ".Localizer")

	p.Tracer = tracing.NewAverageTimeTracer(p.Engine,
		func(t tracing.Task) bool { return t.Kind == localizer.TaskKind })
	tracing.CollectTrace(p.Localizer.TaskDomain(), p.Tracer)

	return nil
}
