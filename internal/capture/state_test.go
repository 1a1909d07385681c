package capture

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Matrix4", func() {
	Describe("Flatten", func() {
		It("should lay columns out before rows", func() {
			m := Matrix4{Columns: [4]Vector4{
				{X: 1, Y: 2, Z: 3, W: 4},
				{X: 5, Y: 6, Z: 7, W: 8},
				{X: 9, Y: 10, Z: 11, W: 12},
				{X: 13, Y: 14, Z: 15, W: 16},
			}}
			Expect(m.Flatten()).To(Equal([16]float64{
				1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
			}))
		})
	})

	Describe("Identity", func() {
		It("should place ones on the diagonal", func() {
			Expect(Identity().Flatten()).To(Equal([16]float64{
				1, 0, 0, 0,
				0, 1, 0, 0,
				0, 0, 1, 0,
				0, 0, 0, 1,
			}))
		})
	})
})

var _ = Describe("Phase transitions", func() {
	It("should allow the happy path", func() {
		path := []Phase{PhaseIdle, PhaseStarting, PhaseRunning, PhaseFinalizing, PhaseEnded, PhaseIdle}
		for i := 0; i+1 < len(path); i++ {
			Expect(ValidTransition(path[i], path[i+1])).To(Succeed())
		}
	})

	It("should allow stopping from any active phase", func() {
		for _, from := range []Phase{PhaseStarting, PhaseRunning, PhaseFinalizing} {
			Expect(ValidTransition(from, PhaseStopping)).To(Succeed())
		}
	})

	It("should reject starting a second attempt mid-flight", func() {
		Expect(ValidTransition(PhaseRunning, PhaseStarting)).NotTo(Succeed())
		Expect(ValidTransition(PhaseStopping, PhaseStarting)).NotTo(Succeed())
	})

	It("should reject unknown phases", func() {
		Expect(ValidTransition(Phase("paused"), PhaseIdle)).NotTo(Succeed())
		Expect(ValidTransition(PhaseIdle, Phase("paused"))).NotTo(Succeed())
	})

	It("should keep Ended reachable only from an active attempt", func() {
		Expect(ValidTransition(PhaseIdle, PhaseEnded)).NotTo(Succeed())
	})
})
