package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/meshguard/feature"
	"github.com/sarchlab/meshguard/predictor"
)

var _ = Describe("Perceptron", func() {
	var p *predictor.Perceptron

	BeforeEach(func() {
		p = predictor.NewPerceptron("Perceptron[0][0]_#0_input")
	})

	It("should panic without a full weight vector", func() {
		Expect(p.Ready()).To(BeFalse())
		Expect(func() { p.Predict(feature.Vector{1}) }).To(Panic())

		p.SetWeights([]float32{1, 2, 3})
		Expect(func() { p.Predict(feature.Vector{1}) }).To(Panic())
	})

	It("should copy the weights", func() {
		w := []float32{1, 0, 0, 0, 0, 0}
		p.SetWeights(w)
		w[0] = -1

		Expect(p.Weights()[0]).To(Equal(float32(1)))
	})

	It("should predict positive dot products", func() {
		vectors := []feature.Vector{
			{1, 0, 0, 0, 0, 0},
			{1, 4, 30, 0, 2, 7},
			{1, 1, 1, 1, 1, 1},
			{1, 0, 100, 8, 0, 250},
			{1, -3, 2, 5, 9, 1},
		}
		weights := [][]float32{
			{0, 0, 0, 0, 0, 0},
			{-0.5, 1, 0, 0, 0, 0},
			{0.25, -0.1, 0.01, 2, -1, 0.5},
			{-10, 0.5, 0.5, 0.5, 0.5, 0.5},
			{1, 1, -1, 1, -1, 1},
		}

		for _, w := range weights {
			p.SetWeights(w)
			for _, f := range vectors {
				var dot float32
				for i := range f {
					dot += float32(f[i]) * w[i]
				}

				Expect(p.Sum(f)).To(BeNumerically("~", dot, 1e-4))
				Expect(p.Predict(f)).To(Equal(dot > 0))
			}
		}
	})

	It("should not predict on a zero sum", func() {
		p.SetWeights([]float32{1, -1, 0, 0, 0, 0})
		Expect(p.Predict(feature.Vector{1, 1, 0, 0, 0, 0})).To(BeFalse())
	})
})

var _ = Describe("Fuse", func() {
	It("should follow the truth tables", func() {
		for _, a := range []bool{false, true} {
			for _, b := range []bool{false, true} {
				Expect(predictor.Fuse(a, b, predictor.And)).To(Equal(a && b))
				Expect(predictor.Fuse(a, b, predictor.Or)).To(Equal(a || b))
			}
		}
	})
})
