// Package predictor decides whether a port of the mesh is under attack by
// fusing the verdicts of two perceptrons, one on each side of the link.
package predictor

import (
	"fmt"

	"github.com/sarchlab/meshguard/feature"
)

// A Perceptron is a linear classifier with a fixed weight vector.
type Perceptron struct {
	name    string
	weights []float32
}

// NewPerceptron creates a perceptron without weights.
func NewPerceptron(name string) *Perceptron {
	return &Perceptron{name: name}
}

// Name returns the name of the perceptron.
func (p *Perceptron) Name() string {
	return p.name
}

// SetWeights replaces the weight vector. The weights are copied.
func (p *Perceptron) SetWeights(w []float32) {
	p.weights = append([]float32(nil), w...)
}

// Weights returns a copy of the weight vector.
func (p *Perceptron) Weights() []float32 {
	return append([]float32(nil), p.weights...)
}

// Ready checks if the weight vector matches the feature length.
func (p *Perceptron) Ready() bool {
	return len(p.weights) == feature.Length
}

// Predict returns true if the weighted sum of the features is positive.
func (p *Perceptron) Predict(f feature.Vector) bool {
	if !p.Ready() {
		panic(fmt.Sprintf("perceptron %s has %d weights, want %d",
			p.name, len(p.weights), feature.Length))
	}

	return p.Sum(f) > 0
}

// Sum returns the dot product of the features and the weights.
func (p *Perceptron) Sum(f feature.Vector) float32 {
	var sum float32
	for i, w := range p.weights {
		sum += float32(f[i]) * w
	}

	return sum
}
