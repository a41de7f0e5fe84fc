// Package localizer implements the token protocol that locates malicious
// endpoints of a NoC mesh and disables them.
package localizer

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/tracing"

	"github.com/sarchlab/meshguard/mesh"
)

// DefaultTimeout is the number of cycles a router waits before it may raise
// another suspicion.
const DefaultTimeout = 5000

// TaskKind is the kind of the tracing tasks that measure how long it takes
// from a suspicion to the first disabled endpoint.
const TaskKind = "localization"

// Hook positions.
var (
	// HookPosTokenGenerated marks a router raising a fresh suspicion.
	HookPosTokenGenerated = &sim.HookPos{Name: "TokenGenerated"}
	// HookPosTokenDigested marks a token that no router accepted.
	HookPosTokenDigested = &sim.HookPos{Name: "TokenDigested"}
	// HookPosFalseTrigger marks a suspicion withdrawn in the cycle it was
	// raised.
	HookPosFalseTrigger = &sim.HookPos{Name: "FalseTrigger"}
	// HookPosRouterStopped marks an endpoint being disabled.
	HookPosRouterStopped = &sim.HookPos{Name: "RouterStopped"}
)

// Event is the item of the hooks invoked by the localizer.
type Event struct {
	Cycle  uint64
	Router int
	Token  Token
}

// Predictor tells if a port of a router is under attack.
type Predictor interface {
	Predict(router int, side mesh.Side) bool
}

// Disabler turns off the processing element attached to a router.
type Disabler interface {
	SetDisabled(router int)
}

// Localizer owns the protocol state of all the routers in a mesh and steps
// them cycle by cycle.
type Localizer struct {
	*sim.HookableBase

	name      string
	mesh      mesh.Mesh
	predictor Predictor
	disabler  Disabler
	stimulus  Stimulus
	timeout   int

	routers   []Router
	tasks     *taskDomain
	openTasks map[string]bool
	cycle     uint64
}

// taskDomain is where localization tasks are traced, apart from the protocol
// hooks of the localizer.
type taskDomain struct {
	*sim.HookableBase
	name string
}

func newTaskDomain(name string) *taskDomain {
	return &taskDomain{
		HookableBase: sim.NewHookableBase(),
		name:         name,
	}
}

func (d *taskDomain) Name() string {
	return d.name
}

// TaskDomain returns the hookable that localization tasks are reported to.
// Attach tracers to it with tracing.CollectTrace.
func (l *Localizer) TaskDomain() tracing.NamedHookable {
	return l.tasks
}

// Name returns the name of the localizer.
func (l *Localizer) Name() string {
	return l.name
}

// Mesh returns the mesh the localizer covers.
func (l *Localizer) Mesh() mesh.Mesh {
	return l.mesh
}

// Timeout returns the rate-limit window.
func (l *Localizer) Timeout() int {
	return l.timeout
}

// NumRouters returns the number of routers.
func (l *Localizer) NumRouters() int {
	return len(l.routers)
}

// Router returns the router with the given id.
func (l *Localizer) Router(id int) *Router {
	if id < 0 || id >= len(l.routers) {
		panic(fmt.Sprintf("router %d out of range", id))
	}

	return &l.routers[id]
}

// Stopped returns the ids of the stopped routers in ascending order.
func (l *Localizer) Stopped() []int {
	ids := []int{}
	for i := range l.routers {
		if l.routers[i].stopped {
			ids = append(ids, i)
		}
	}

	return ids
}

// Step runs one cycle of the protocol. Every router gathers before any router
// transmits.
func (l *Localizer) Step(cycle uint64) {
	l.cycle = cycle

	for i := range l.routers {
		l.gather(&l.routers[i])
	}

	for i := range l.routers {
		l.transmit(&l.routers[i])
	}
}

func (l *Localizer) invoke(pos *sim.HookPos, r *Router, t Token) {
	if l.NumHooks() == 0 {
		return
	}

	l.InvokeHook(sim.HookCtx{
		Domain: l,
		Pos:    pos,
		Item: Event{
			Cycle:  l.cycle,
			Router: r.id,
			Token:  t,
		},
	})
}

// startTask opens the localization task of a suspicion raised by r in this
// cycle. Suspicions that are withdrawn right away never open one.
func (l *Localizer) startTask(r *Router, t Token) {
	if l.openTasks[t.ID] {
		return
	}

	l.openTasks[t.ID] = true
	tracing.StartTask(t.ID, "", l.tasks, TaskKind, "suspicion", r.name)
}

func (l *Localizer) endTask(t Token) {
	if !l.openTasks[t.ID] {
		return
	}

	delete(l.openTasks, t.ID)
	tracing.EndTask(t.ID, l.tasks)
}

// Builder can build localizers.
type Builder struct {
	mesh      mesh.Mesh
	predictor Predictor
	disabler  Disabler
	stimulus  Stimulus
	timeout   int
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		timeout: DefaultTimeout,
	}
}

// WithMesh sets the mesh.
func (b Builder) WithMesh(m mesh.Mesh) Builder {
	b.mesh = m
	return b
}

// WithPredictor sets the predictor shared by all the routers.
func (b Builder) WithPredictor(p Predictor) Builder {
	b.predictor = p
	return b
}

// WithDisabler sets what turns off the endpoints of stopped routers.
func (b Builder) WithDisabler(d Disabler) Builder {
	b.disabler = d
	return b
}

// WithStimulus sets when routers raise suspicions. Without a stimulus, no
// suspicion is ever raised.
func (b Builder) WithStimulus(s Stimulus) Builder {
	b.stimulus = s
	return b
}

// WithTimeout sets the rate-limit window in cycles.
func (b Builder) WithTimeout(cycles int) Builder {
	b.timeout = cycles
	return b
}

// Build creates a localizer.
func (b Builder) Build(name string) *Localizer {
	if b.mesh.NumRouters() == 0 {
		panic("localizer: mesh not set")
	}

	if b.predictor == nil {
		panic("localizer: predictor not set")
	}

	if b.disabler == nil {
		panic("localizer: disabler not set")
	}

	if b.timeout <= 0 {
		panic(fmt.Sprintf("localizer: invalid timeout %d", b.timeout))
	}

	l := &Localizer{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		mesh:         b.mesh,
		predictor:    b.predictor,
		disabler:     b.disabler,
		stimulus:     b.stimulus,
		timeout:      b.timeout,
		routers:      make([]Router, b.mesh.NumRouters()),
		tasks:        newTaskDomain(name + ".Tasks"),
		openTasks:    make(map[string]bool),
	}

	for i := range l.routers {
		l.routers[i] = newRouter(b.mesh, i)
	}

	return l
}
