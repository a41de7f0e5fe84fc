// Command cyclic replays a cyclic attack on a 2x2 mesh. The endpoints of
// routers 0, 1 and 3 flood each other along 0 -> 1 -> 3 -> 2 -> 0, with
// router 2 only relaying. The localizer is expected to disable 0, 1 and 3.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/tracing"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/meshguard/api"
	"github.com/sarchlab/meshguard/config"
	"github.com/sarchlab/meshguard/localizer"
	"github.com/sarchlab/meshguard/mesh"
	"github.com/sarchlab/meshguard/pe"
	"github.com/sarchlab/meshguard/predictor"
	"github.com/sarchlab/meshguard/report"
	"github.com/sarchlab/meshguard/telemetry"
)

var useMonitor = flag.Bool("monitor", false, "Serve the akita monitor.")

type link struct {
	from int
	side mesh.Side
}

var (
	attackers   = []int{0, 1, 3}
	attackLinks = []link{
		{0, mesh.East},
		{1, mesh.South},
		{3, mesh.West},
		{2, mesh.North},
	}
)

// cyclicAttack writes the telemetry of the attack in every cycle. On a flagged
// link, the router holds a flit on that side while the neighbor behind it keeps
// sending.
type cyclicAttack struct {
	mesh  mesh.Mesh
	store *telemetry.Store
}

func (a cyclicAttack) Feed(cycle uint64) {
	a.store.Tick(cycle)

	waiting := telemetry.Channel{BufferCapacity: 4, BufferOccupancy: 1}
	sending := telemetry.Channel{
		BufferCapacity:    4,
		TransmittedFlits:  1,
		CumulativeLatency: 3,
	}

	for _, id := range attackers {
		a.store.Set(id, mesh.Local, 0, waiting)
		a.store.Set(id, mesh.PERx, 0, waiting)
	}

	for _, l := range attackLinks {
		to := a.mesh.MustNeighbor(l.from, l.side)
		a.store.Set(l.from, l.side, 0, waiting)
		a.store.Set(to, l.side.Opposite(), 0, sending)
	}
}

// weights flag a port holding a flit on the input side and a neighbor that
// transmitted a flit on the output side.
func weights(m mesh.Mesh) predictor.WeightTable {
	t := make(predictor.WeightTable)
	for id := 0; id < m.NumRouters(); id++ {
		t[predictor.WeightKey{Router: id, Role: predictor.Input}] =
			[]float32{-0.5, 1, 0, 0, 0, 0}
		t[predictor.WeightKey{Router: id, Role: predictor.Output}] =
			[]float32{-0.5, 0, 0, 0, 1, 0}
	}

	return t
}

func andEverywhere(m mesh.Mesh) predictor.OperatorTable {
	t := make(predictor.OperatorTable)
	for id := 0; id < m.NumRouters(); id++ {
		for _, side := range mesh.Cardinals {
			t[predictor.PortKey{Router: id, Side: side}] = predictor.And
		}
	}

	return t
}

func main() {
	flag.Parse()

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: localizer.LevelTrace,
	})
	slog.SetDefault(slog.New(handler))

	c := config.Default()
	c.Mesh = config.MeshConfig{Width: 2, Height: 2}
	c.VirtualChannels = 1
	c.Timeout = 50
	c.MaxCycles = 100
	c.ResetCycles = 5

	m := mesh.New(c.Mesh.Width, c.Mesh.Height)
	engine := sim.NewSerialEngine()
	store := telemetry.NewStore(m, c.VirtualChannels)
	endpoints := pe.NewEndpoints(m.NumRouters())

	fusion, err := predictor.MakeBuilder().
		WithMesh(m).
		WithSource(store).
		WithWeights(weights(m)).
		WithOperators(andEverywhere(m)).
		Build()
	if err != nil {
		panic(err)
	}

	loc := localizer.MakeBuilder().
		WithMesh(m).
		WithPredictor(fusion).
		WithDisabler(endpoints).
		WithStimulus(localizer.WindowStimulus{StartCycle: 10, Nodes: []int{0}}).
		WithTimeout(c.Timeout).
		Build("Localizer")

	tracer := tracing.NewAverageTimeTracer(engine,
		func(t tracing.Task) bool { return t.Kind == localizer.TaskKind })
	tracing.CollectTrace(loc.TaskDomain(), tracer)

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithTelemetryFeed(cyclicAttack{mesh: m, store: store}).
		WithStepper(loc).
		WithResetCycles(c.ResetCycles).
		WithMaxCycles(c.MaxCycles).
		Build("Driver")
	endpoints.WithCycleCounter(driver.Cycle)

	if *useMonitor {
		monitor := monitoring.NewMonitor()
		monitor.RegisterEngine(engine)
		monitor.RegisterComponent(driver)
		monitor.StartServer()
	}

	if err := driver.Run(); err != nil {
		panic(err)
	}

	p := &config.Platform{
		Config:    c,
		Engine:    engine,
		Mesh:      m,
		Store:     store,
		Endpoints: endpoints,
		Predictor: fusion,
		Localizer: loc,
		Tracer:    tracer,
		Driver:    driver,
	}
	report.GenerateReport(p).WriteReport(os.Stderr)

	atexit.Exit(0)
}
