package predictor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/meshguard/feature"
	"github.com/sarchlab/meshguard/mesh"
	"github.com/sarchlab/meshguard/telemetry"
)

// FusionPredictor owns an input and an output perceptron per router and
// decides whether a port is under attack.
type FusionPredictor struct {
	mesh      mesh.Mesh
	extractor *feature.Extractor
	inputs    []*Perceptron
	outputs   []*Perceptron
	operators OperatorTable
}

// Predict returns the fused verdict of a port. The input perceptron of the
// router judges the port. For cardinal ports, the output perceptron of the
// neighbor that feeds the link judges it too, and the operator of the port
// combines both verdicts. Local ports only have the input verdict.
func (p *FusionPredictor) Predict(router int, side mesh.Side) bool {
	other, _ := p.extractor.Neighbor(router, side)
	f := p.extractor.Extract(router, side)

	in := p.inputs[router].Predict(f)
	if other == router {
		return in
	}

	out := p.outputs[other].Predict(f)

	return Fuse(in, out, p.operators.Lookup(router, side))
}

// Input returns the input perceptron of a router.
func (p *FusionPredictor) Input(router int) *Perceptron {
	return p.inputs[router]
}

// Output returns the output perceptron of a router.
func (p *FusionPredictor) Output(router int) *Perceptron {
	return p.outputs[router]
}

// LogTables logs the loaded weights and operators at debug level.
func (p *FusionPredictor) LogTables() {
	for id := 0; id < p.mesh.NumRouters(); id++ {
		slog.Debug("Weights",
			"Router", id,
			"Input", p.inputs[id].weights,
			"Output", p.outputs[id].weights,
		)
	}

	keys := make([]PortKey, 0, len(p.operators))
	for k := range p.operators {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Router != keys[j].Router {
			return keys[i].Router < keys[j].Router
		}
		return keys[i].Side < keys[j].Side
	})

	for _, k := range keys {
		slog.Debug("Operator",
			"Router", k.Router,
			"Side", k.Side.Name(),
			"Op", p.operators[k].String(),
		)
	}
}

// DumpFeatures writes the current feature vector and verdict of every port
// that has a neighbor inside the mesh.
func (p *FusionPredictor) DumpFeatures(w io.Writer) error {
	t := table.NewWriter()
	t.SetTitle("Features")
	t.AppendHeader(table.Row{
		"Router", "Side", "Bias", "Occupancy", "Idle",
		"Stalled", "Transmitted", "AvgLatency", "Attack",
	})

	for id := 0; id < p.mesh.NumRouters(); id++ {
		for side := mesh.North; side <= mesh.PERx; side++ {
			if !p.mesh.HasNeighbor(id, side) {
				continue
			}

			f := p.extractor.Extract(id, side)
			t.AppendRow(table.Row{
				p.mesh.RouterName(id), side.Name(),
				f[feature.Bias], f[feature.BufferOccupancy], f[feature.IdleCycles],
				f[feature.StalledFlits], f[feature.TransmittedFlits],
				f[feature.AvgLatency], p.Predict(id, side),
			})
		}
	}

	_, err := fmt.Fprintln(w, t.Render())

	return err
}

// Builder can build fusion predictors.
type Builder struct {
	mesh      mesh.Mesh
	source    telemetry.Source
	vc        int
	weights   WeightTable
	operators OperatorTable
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithMesh sets the mesh the predictor covers.
func (b Builder) WithMesh(m mesh.Mesh) Builder {
	b.mesh = m
	return b
}

// WithSource sets where the telemetry comes from.
func (b Builder) WithSource(s telemetry.Source) Builder {
	b.source = s
	return b
}

// WithVirtualChannel sets the virtual channel that features are read from.
func (b Builder) WithVirtualChannel(vc int) Builder {
	b.vc = vc
	return b
}

// WithWeights sets the weight table.
func (b Builder) WithWeights(t WeightTable) Builder {
	b.weights = t
	return b
}

// WithOperators sets the operator table.
func (b Builder) WithOperators(t OperatorTable) Builder {
	b.operators = t
	return b
}

// Build creates a predictor. Every router must have a weight vector of the
// feature length for both roles.
func (b Builder) Build() (*FusionPredictor, error) {
	if b.mesh.NumRouters() == 0 {
		return nil, errors.New("predictor: mesh not set")
	}

	if b.source == nil {
		return nil, errors.New("predictor: telemetry source not set")
	}

	n := b.mesh.NumRouters()
	p := &FusionPredictor{
		mesh:      b.mesh,
		extractor: feature.NewExtractor(b.mesh, b.source, b.vc),
		inputs:    make([]*Perceptron, n),
		outputs:   make([]*Perceptron, n),
		operators: b.operators,
	}

	if p.operators == nil {
		p.operators = make(OperatorTable)
	}

	for k := range b.weights {
		if k.Router >= n {
			return nil, fmt.Errorf("predictor: weights for router %d outside %dx%d mesh",
				k.Router, b.mesh.Width, b.mesh.Height)
		}
	}

	for k := range p.operators {
		if k.Router >= n {
			return nil, fmt.Errorf("predictor: operator for router %d outside %dx%d mesh",
				k.Router, b.mesh.Width, b.mesh.Height)
		}
	}

	for id := 0; id < n; id++ {
		x, y := b.mesh.Coord(id)
		base := fmt.Sprintf("Perceptron[%d][%d]_#%d", x, y, id)

		in, err := b.perceptron(base, id, Input)
		if err != nil {
			return nil, err
		}

		out, err := b.perceptron(base, id, Output)
		if err != nil {
			return nil, err
		}

		p.inputs[id] = in
		p.outputs[id] = out
	}

	return p, nil
}

func (b Builder) perceptron(base string, id int, role Role) (*Perceptron, error) {
	w, ok := b.weights[WeightKey{Router: id, Role: role}]
	if !ok {
		return nil, fmt.Errorf("predictor: router %d has no %s weights", id, role)
	}

	if len(w) != feature.Length {
		return nil, fmt.Errorf("predictor: router %d has %d %s weights, want %d",
			id, len(w), role, feature.Length)
	}

	p := NewPerceptron(base + "_" + role.String())
	p.SetWeights(w)

	return p, nil
}
