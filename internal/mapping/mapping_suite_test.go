package mapping

import (
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/history"
)

func TestMappingProperties(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Mapping Properties Suite")
}

func randomStates(seed int64, n int) []dimension.StateVector {
	rng := rand.New(rand.NewSource(seed))
	states := make([]dimension.StateVector, n)
	for i := range states {
		sv := dimension.New(0)
		for _, d := range dimension.Registry {
			sv.Set(d.Key, rng.Intn(dimension.Max+1))
		}
		states[i] = sv
	}
	return states
}

var _ = Describe("Weighted policy", func() {
	var policy *Weighted

	BeforeEach(func() {
		policy = NewWeighted(nil)
	})

	It("keeps every output inside its documented range", func() {
		for _, sv := range randomStates(7, 500) {
			r := policy.Map(sv, nil)
			Expect(r.D).To(BeNumerically(">=", 0))
			Expect(r.D).To(BeNumerically("<=", MaxD))
			Expect(r.Lambda).To(BeNumerically(">=", 0))
			Expect(r.Lambda).To(BeNumerically("<=", MaxLambda))
			Expect(r.Mu).To(BeNumerically(">=", 0))
			Expect(r.Mu).To(BeNumerically("<=", MaxMu))
			Expect(r.Coherence).To(BeNumerically(">=", 0))
			Expect(r.Coherence).To(BeNumerically("<=", 1))
			Expect(r.Tension).To(BeNumerically(">=", 0))
			Expect(r.Tension).To(BeNumerically("<=", MaxTension))
			Expect(r.CoherencePercent).To(BeNumerically(">=", 0))
			Expect(r.CoherencePercent).To(BeNumerically("<=", 100))
			Expect(r.TensionPercent).To(BeNumerically(">=", 0))
			Expect(r.TensionPercent).To(BeNumerically("<=", 100))
		}
	})

	It("is deterministic", func() {
		for _, sv := range randomStates(11, 100) {
			Expect(policy.Map(sv, nil)).To(Equal(policy.Map(sv.Clone(), nil)))
		}
	})

	It("never lowers D or raises lambda as chaos grows", func() {
		for _, base := range randomStates(13, 100) {
			prev := Record{}
			for level := dimension.Min; level <= dimension.Max; level++ {
				sv := base.Clone()
				sv.Set(dimension.ChaosLoad, level)
				r := policy.Map(sv, nil)
				if level > dimension.Min {
					Expect(r.D).To(BeNumerically(">=", prev.D))
					Expect(r.Lambda).To(BeNumerically("<=", prev.Lambda))
					Expect(r.Mu).To(BeNumerically(">=", prev.Mu))
				}
				prev = r
			}
		}
	})

	It("has no chaos contribution to D when chaos is zero", func() {
		sv := dimension.New(5)
		sv.Set(dimension.ChaosLoad, 0)
		Expect(policy.Map(sv, nil).D).To(BeNumerically("~", 0, 1e-12))
	})
})

var _ = Describe("Jitter policy", func() {
	var policy *Jitter

	BeforeEach(func() {
		policy = NewJitter()
	})

	It("is deterministic for the same window", func() {
		window := []history.Sample{
			{Timestamp: 0, State: dimension.New(1)},
			{Timestamp: 60_000, State: dimension.New(4)},
		}
		a := policy.Map(window[1].State, window)
		b := policy.Map(window[1].State, append([]history.Sample(nil), window...))
		Expect(a).To(Equal(b))
	})

	It("keeps lambda, mu and coherence inside their ranges", func() {
		for _, sv := range randomStates(17, 300) {
			r := policy.Map(sv, nil)
			Expect(r.D).To(Equal(0.1))
			Expect(r.Lambda).To(BeNumerically(">=", 0.2))
			Expect(r.Lambda).To(BeNumerically("<=", 1.0+1e-12))
			Expect(r.Mu).To(BeNumerically(">=", 0.1))
			Expect(r.Mu).To(BeNumerically("<=", 1.0+1e-12))
			Expect(r.Coherence).To(BeNumerically(">=", 0))
			Expect(r.Coherence).To(BeNumerically("<=", 1))
		}
	})

	It("lowers lambda as chaos grows", func() {
		low := dimension.New(3)
		low.Set(dimension.ChaosLoad, 1)
		high := low.Clone()
		high.Set(dimension.ChaosLoad, 4)
		Expect(policy.Map(high, nil).Lambda).To(BeNumerically("<", policy.Map(low, nil).Lambda))
	})
})
