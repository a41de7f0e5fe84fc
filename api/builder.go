package api

import "github.com/sarchlab/akita/v4/sim"

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine      sim.Engine
	freq        sim.Freq
	stepper     Stepper
	feeds       []TelemetryFeed
	resetCycles uint64
	maxCycles   uint64
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the driver.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithStepper sets what runs in every cycle after reset. A driver without a
// stepper only feeds telemetry.
func (b DriverBuilder) WithStepper(s Stepper) DriverBuilder {
	b.stepper = s
	return b
}

// WithTelemetryFeed adds a telemetry feed. Feeds run in the order they are
// added, before the stepper.
func (b DriverBuilder) WithTelemetryFeed(f TelemetryFeed) DriverBuilder {
	b.feeds = append(append([]TelemetryFeed(nil), b.feeds...), f)
	return b
}

// WithResetCycles sets how many cycles the reset signal is asserted for at
// the beginning of the run.
func (b DriverBuilder) WithResetCycles(n uint64) DriverBuilder {
	b.resetCycles = n
	return b
}

// WithMaxCycles sets how many cycles to run.
func (b DriverBuilder) WithMaxCycles(n uint64) DriverBuilder {
	b.maxCycles = n
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.maxCycles == 0 {
		panic("driver: max cycles not set")
	}

	d := &driverImpl{
		stepper:     b.stepper,
		feeds:       b.feeds,
		resetCycles: b.resetCycles,
		maxCycles:   b.maxCycles,
	}

	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	return d
}
