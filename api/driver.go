// Package api defines the driver that clocks the localizer.
package api

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/meshguard/mesh"
	"github.com/sarchlab/meshguard/telemetry"
)

// Driver provides the interface to control a localization run.
type Driver interface {
	sim.Component

	// Cycle returns the cycle being driven. Between ticks, it is the number
	// of cycles driven so far.
	Cycle() uint64

	// InReset checks if the reset signal is asserted in the given cycle.
	InReset(cycle uint64) bool

	// Run ticks the driver until the cycle limit is reached.
	Run() error
}

// Stepper runs the localization protocol for one cycle.
type Stepper interface {
	Step(cycle uint64)
}

// TelemetryFeed updates the telemetry store before the protocol runs.
type TelemetryFeed interface {
	Feed(cycle uint64)
}

// EndpointStatus tells which endpoints have been disabled.
type EndpointStatus interface {
	Disabled(router int) bool
}

// TraceFeed replays a recorded telemetry trace into a store. Disabled
// endpoints no longer inject, so their injection ports are drained after the
// records are applied.
type TraceFeed struct {
	Store     *telemetry.Store
	Trace     *telemetry.Trace
	Endpoints EndpointStatus
}

// Feed clears the per-cycle counters and applies the records of the cycle.
func (f TraceFeed) Feed(cycle uint64) {
	f.Store.Tick(cycle)

	if f.Trace != nil {
		f.Trace.Apply(f.Store, cycle)
	}

	if f.Endpoints == nil {
		return
	}

	for id := 0; id < f.Store.NumRouters(); id++ {
		if f.Endpoints.Disabled(id) {
			f.Store.Drain(id, mesh.Local)
		}
	}
}

type driverImpl struct {
	*sim.TickingComponent

	stepper     Stepper
	feeds       []TelemetryFeed
	resetCycles uint64
	maxCycles   uint64

	cycle uint64
}

// Tick runs the driver for one cycle.
func (d *driverImpl) Tick() (madeProgress bool) {
	if d.cycle >= d.maxCycles {
		return false
	}

	d.runCycle(d.cycle)
	d.cycle++

	return true
}

func (d *driverImpl) runCycle(cycle uint64) {
	for _, f := range d.feeds {
		f.Feed(cycle)
	}

	if d.InReset(cycle) {
		slog.Debug("Reset", "Cycle", cycle)
		return
	}

	if d.stepper != nil {
		d.stepper.Step(cycle)
	}
}

func (d *driverImpl) Cycle() uint64 {
	return d.cycle
}

func (d *driverImpl) InReset(cycle uint64) bool {
	return cycle < d.resetCycles
}

// Run schedules the first tick and runs the engine until no more events are
// left.
func (d *driverImpl) Run() error {
	d.TickNow()

	return d.Engine.Run()
}
