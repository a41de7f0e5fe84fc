package predictor_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/meshguard/mesh"
	"github.com/sarchlab/meshguard/predictor"
	"github.com/sarchlab/meshguard/telemetry"
)

// Input perceptrons flag a port holding at least one flit. Output perceptrons
// flag a neighbor that transmitted at least one flit.
func thresholdWeights(m mesh.Mesh) predictor.WeightTable {
	t := make(predictor.WeightTable)
	for id := 0; id < m.NumRouters(); id++ {
		t[predictor.WeightKey{Router: id, Role: predictor.Input}] =
			[]float32{-0.5, 1, 0, 0, 0, 0}
		t[predictor.WeightKey{Router: id, Role: predictor.Output}] =
			[]float32{-0.5, 0, 0, 0, 1, 0}
	}

	return t
}

var _ = Describe("FusionPredictor", func() {
	var (
		m       mesh.Mesh
		store   *telemetry.Store
		ops     predictor.OperatorTable
		builder predictor.Builder
	)

	BeforeEach(func() {
		m = mesh.New(2, 2)
		store = telemetry.NewStore(m, 1)
		ops = predictor.OperatorTable{
			{Router: 0, Side: mesh.East}: predictor.And,
			{Router: 0, Side: mesh.PERx}: predictor.And,
		}
		builder = predictor.MakeBuilder().
			WithMesh(m).
			WithSource(store).
			WithWeights(thresholdWeights(m)).
			WithOperators(ops)
	})

	set := func(router int, side mesh.Side, occupancy, transmitted int) {
		store.Set(router, side, 0, telemetry.Channel{
			BufferOccupancy:  occupancy,
			TransmittedFlits: transmitted,
		})
	}

	It("should name perceptrons by position and role", func() {
		p, err := builder.Build()
		Expect(err).ToNot(HaveOccurred())

		Expect(p.Input(3).Name()).To(Equal("Perceptron[1][1]_#3_input"))
		Expect(p.Output(2).Name()).To(Equal("Perceptron[0][1]_#2_output"))
	})

	It("should AND both sides of a link", func() {
		p, err := builder.Build()
		Expect(err).ToNot(HaveOccurred())

		for _, a := range []int{0, 1} {
			for _, b := range []int{0, 1} {
				set(0, mesh.East, a, 0)
				set(1, mesh.West, 0, b)

				Expect(p.Predict(0, mesh.East)).To(Equal(a == 1 && b == 1))
			}
		}
	})

	It("should OR both sides of a link by default", func() {
		p, err := builder.Build()
		Expect(err).ToNot(HaveOccurred())

		for _, a := range []int{0, 1} {
			for _, b := range []int{0, 1} {
				set(0, mesh.South, a, 0)
				set(2, mesh.North, 0, b)

				Expect(p.Predict(0, mesh.South)).To(Equal(a == 1 || b == 1))
			}
		}
	})

	It("should only use the input side on local ports", func() {
		p, err := builder.Build()
		Expect(err).ToNot(HaveOccurred())

		for _, side := range []mesh.Side{mesh.Local, mesh.PERx} {
			set(0, side, 0, 5)
			Expect(p.Predict(0, side)).To(BeFalse())

			set(0, side, 1, 0)
			Expect(p.Predict(0, side)).To(BeTrue())
		}
	})

	It("should panic across the boundary", func() {
		p, err := builder.Build()
		Expect(err).ToNot(HaveOccurred())

		Expect(func() { p.Predict(0, mesh.North) }).To(Panic())
	})

	It("should fail without a role", func() {
		w := thresholdWeights(m)
		delete(w, predictor.WeightKey{Router: 2, Role: predictor.Output})

		_, err := builder.WithWeights(w).Build()
		Expect(err).To(MatchError(ContainSubstring("router 2 has no output weights")))
	})

	It("should fail on short weight vectors", func() {
		w := thresholdWeights(m)
		w[predictor.WeightKey{Router: 1, Role: predictor.Input}] = []float32{1, 2}

		_, err := builder.WithWeights(w).Build()
		Expect(err).To(MatchError(ContainSubstring("has 2 input weights")))
	})

	It("should fail on routers outside the mesh", func() {
		w := thresholdWeights(m)
		w[predictor.WeightKey{Router: 4, Role: predictor.Input}] =
			[]float32{1, 1, 1, 1, 1, 1}

		_, err := builder.WithWeights(w).Build()
		Expect(err).To(HaveOccurred())
	})

	It("should fail without a source", func() {
		_, err := builder.WithSource(nil).Build()
		Expect(err).To(HaveOccurred())
	})

	It("should dump the features of every port", func() {
		p, err := builder.Build()
		Expect(err).ToNot(HaveOccurred())

		set(3, mesh.West, 2, 0)

		buf := new(bytes.Buffer)
		Expect(p.DumpFeatures(buf)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("LocalizerRouter[1][1]_#3"))
		Expect(buf.String()).To(ContainSubstring("PERx"))

		p.LogTables()
	})
})
