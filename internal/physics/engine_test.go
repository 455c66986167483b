package physics

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/integrators"
	"gonum.org/v1/gonum/spatial/r2"
)

func mustBody(id string, x, y, earthMasses, density float64) dynamo.Body {
	b, err := NewBody(BodySpec{
		ID:      id,
		Pos:     r2.Vec{X: x, Y: y},
		Mass:    earthMasses * EarthMass,
		Density: density,
		Color:   "#808080",
	})
	Expect(err).NotTo(HaveOccurred())
	return b
}

var _ = Describe("Engine", func() {
	var eng *Engine

	BeforeEach(func() {
		eng = NewEngine(WithIDGenerator(sequentialIDs("merged")))
	})

	It("defaults to leapfrog", func() {
		Expect(NewEngine().Integrator()).To(Equal("leapfrog"))
	})

	It("does not modify the registry it is given", func() {
		reg := dynamo.Registry{mustBody("a", 0, 0, 1, 5.51), mustBody("b", 100, 0, 1, 5.51)}
		before := reg.Clone()

		eng.Step(reg, DefaultConfig())

		Expect(reg).To(Equal(before))
	})

	Context("an isolated body", func() {
		It("moves in a straight line at constant velocity", func() {
			b := mustBody("lone", 10, 20, 1, 5.51)
			b.Vel = r2.Vec{X: 3, Y: -2}
			reg := dynamo.Registry{b}

			for i := 0; i < 100; i++ {
				res := eng.Step(reg, DefaultConfig())
				Expect(res.Interactions).To(BeEmpty())
				reg = res.Bodies
			}

			Expect(reg[0].Vel).To(Equal(r2.Vec{X: 3, Y: -2}))
			Expect(reg[0].Pos.X).To(BeNumerically("~", 10+3*TimeStep*100, 1e-9))
			Expect(reg[0].Pos.Y).To(BeNumerically("~", 20-2*TimeStep*100, 1e-9))
			Expect(reg[0].Trail).To(HaveLen(1))
		})
	})

	Context("two distant bodies", func() {
		It("conserves mass and momentum while attracting", func() {
			a := mustBody("a", 0, 0, 5, 5.51)
			a.Vel = r2.Vec{Y: 1}
			b := mustBody("b", 150, 0, 2, 5.51)
			b.Vel = r2.Vec{Y: -1}
			reg := dynamo.Registry{a, b}
			p0 := reg.Momentum()
			m0 := reg.TotalMass()

			for i := 0; i < 500; i++ {
				reg = eng.Step(reg, DefaultConfig()).Bodies
			}

			Expect(reg).To(HaveLen(2))
			Expect(reg.TotalMass()).To(Equal(m0))
			p := reg.Momentum()
			scale := a.Mass
			Expect(math.Abs(p.X-p0.X)).To(BeNumerically("<", scale*1e-9))
			Expect(math.Abs(p.Y-p0.Y)).To(BeNumerically("<", scale*1e-9))
			Expect(reg[1].Pos.X - reg[0].Pos.X).To(BeNumerically("<", 150))
		})

		It("reports one interaction with equal and opposite forces", func() {
			reg := dynamo.Registry{mustBody("a", 0, 0, 1, 5.51), mustBody("b", 0, 100, 1, 5.51)}

			res := eng.Step(reg, DefaultConfig())

			Expect(res.Interactions).To(HaveLen(1))
			on := dynamo.ForcesOn(res.Interactions, 1)
			Expect(on).To(HaveLen(1))
			Expect(on[0].Target).To(Equal(0))
			Expect(on[0].Force.Y).To(BeNumerically("<", 0))
			Expect(res.Energy.Kinetic).To(BeNumerically(">", 0))
			Expect(res.Energy.Potential).To(BeNumerically("<", 0))
		})
	})

	Context("overlapping bodies", func() {
		var reg dynamo.Registry

		BeforeEach(func() {
			a := mustBody("a", 0, 0, 1, 5.51)
			a.Vel = r2.Vec{X: 4}
			b := mustBody("b", 5, 0, 3, 5.51)
			b.Vel = r2.Vec{X: -1, Y: 2}
			reg = dynamo.Registry{a, b}
		})

		It("merges them on the first step", func() {
			res := eng.Step(reg, DefaultConfig())

			Expect(res.Bodies).To(HaveLen(1))
			Expect(res.Merges).To(HaveLen(1))
			Expect(res.Merges[0].Members).To(Equal([]int{0, 1}))

			m := res.Bodies[0]
			Expect(m.ID).To(Equal("merged-1"))
			Expect(m.Mass).To(Equal(reg.TotalMass()))
			Expect(m.Vel.X).To(BeNumerically("~", 0.25, 1e-12))
			Expect(m.Vel.Y).To(BeNumerically("~", 1.5, 1e-12))
			Expect(m.Force).To(Equal(r2.Vec{}))
			Expect(res.Energy.Potential).To(BeZero())
		})

		It("keeps them apart when collisions are disabled", func() {
			res := eng.Step(reg, Config{EnableCollisions: false})

			Expect(res.Bodies).To(HaveLen(2))
			Expect(res.Merges).To(BeNil())
			Expect(res.Interactions[0].Magnitude).To(BeZero())
		})
	})

	Context("two resting Earth masses 10 apart", func() {
		It("leaves a single resting body of two Earth masses", func() {
			reg := dynamo.Registry{mustBody("a", 0, 0, 1, 5.51), mustBody("b", 10, 0, 1, 5.51)}

			res := eng.Step(reg, DefaultConfig())

			Expect(res.Bodies).To(HaveLen(1))
			m := res.Bodies[0]
			Expect(m.Mass).To(Equal(2 * EarthMass))
			Expect(m.Vel.X).To(BeNumerically("~", 0, 1e-12))
			Expect(m.Vel.Y).To(BeNumerically("~", 0, 1e-12))
			Expect(m.Pos.X).To(BeNumerically("~", 5, 1e-9))
		})
	})

	Context("three mutually overlapping bodies", func() {
		It("folds them into one body in a single tick", func() {
			reg := dynamo.Registry{
				mustBody("a", 0, 0, 1, 5.51),
				mustBody("b", 4, 0, 2, 5.51),
				mustBody("c", 2, 3, 3, 5.51),
			}

			res := eng.Step(reg, DefaultConfig())

			Expect(res.Bodies).To(HaveLen(1))
			Expect(res.Merges).To(HaveLen(1))
			Expect(res.Merges[0].Members).To(Equal([]int{0, 1, 2}))
			Expect(res.Bodies[0].Mass).To(BeNumerically("~", 6*EarthMass, 1e-6*EarthMass))
		})
	})

	Context("a light body on a circular orbit", func() {
		It("keeps its orbital radius over a full revolution", func() {
			central := mustBody("sun", 0, 0, 1000, 1.41)
			orbiter := mustBody("planet", 200, 0, 1, 5.51)
			orbiter.Vel = r2.Vec{Y: OrbitalVelocity(central, 200)}
			reg := dynamo.Registry{central, orbiter}

			period := 2 * math.Pi * 200 / orbiter.Vel.Y
			ticks := int(period / TimeStep)

			minR, maxR := math.Inf(1), 0.0
			for i := 0; i < ticks; i++ {
				reg = eng.Step(reg, DefaultConfig()).Bodies
				d := r2.Norm(r2.Sub(reg[1].Pos, reg[0].Pos))
				minR = math.Min(minR, d)
				maxR = math.Max(maxR, d)
			}

			Expect(reg).To(HaveLen(2))
			Expect(minR / 200).To(BeNumerically("~", 1, 0.05))
			Expect(maxR / 200).To(BeNumerically("~", 1, 0.05))
			Expect(reg[1].Pos.X).To(BeNumerically(">", 150))
		})
	})

	Context("parallel pair evaluation", func() {
		It("matches the sequential step exactly", func() {
			reg := make(dynamo.Registry, 0, 30)
			for i := 0; i < 30; i++ {
				angle := float64(i) * 2 * math.Pi / 30
				reg = append(reg, mustBody(string(rune('a'+i)), 400+300*math.Cos(angle), 300+300*math.Sin(angle), 1+float64(i), 3))
			}

			seq := eng.Step(reg, Config{EnableCollisions: true, Workers: 1})
			par := eng.Step(reg, Config{EnableCollisions: true, Workers: 6})

			Expect(par.Bodies).To(Equal(seq.Bodies))
			Expect(par.Interactions).To(Equal(seq.Interactions))
			Expect(par.Energy).To(Equal(seq.Energy))
		})
	})

	Context("with another integrator", func() {
		It("uses it for the advance", func() {
			integ, err := integrators.Get("euler")
			Expect(err).NotTo(HaveOccurred())

			b := mustBody("lone", 0, 0, 1, 5.51)
			b.Vel = r2.Vec{X: 1}
			res := NewEngine(WithIntegrator(integ)).Step(dynamo.Registry{b}, DefaultConfig())

			Expect(res.Bodies[0].Pos.X).To(BeNumerically("~", TimeStep, 1e-15))
		})
	})
})
