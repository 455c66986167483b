package physics

import (
	"math"

	"github.com/san-kum/starmaker/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// disjointSet groups bodies absorbed into the same merge product. Roots are
// always the earliest index of their set.
type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &disjointSet{parent: p}
}

func (d *disjointSet) find(i int) int {
	for d.parent[i] != i {
		d.parent[i] = d.parent[d.parent[i]]
		i = d.parent[i]
	}
	return i
}

// absorb attaches j's set under i's root.
func (d *disjointSet) absorb(i, j int) {
	ri, rj := d.find(i), d.find(j)
	if ri == rj {
		return
	}
	if rj < ri {
		ri, rj = rj, ri
	}
	d.parent[rj] = ri
}

func overlaps(a, b *dynamo.Body) bool {
	dx := b.Pos.X - a.Pos.X
	dy := b.Pos.Y - a.Pos.Y
	return math.Sqrt(dx*dx+dy*dy) < a.Radius.Visual+b.Radius.Visual
}

// mergePair is a perfectly inelastic collision of a and b. Mass and momentum
// are conserved, the product sits at the center of mass and carries a's
// trail followed by b's. The result has no id and zero force.
func mergePair(a, b dynamo.Body) dynamo.Body {
	total := a.Mass + b.Mass
	weighted := func(x, y float64) float64 {
		return (a.Mass*x + b.Mass*y) / total
	}

	out := dynamo.Body{
		Pos:     r2.Vec{X: weighted(a.Pos.X, b.Pos.X), Y: weighted(a.Pos.Y, b.Pos.Y)},
		Vel:     r2.Vec{X: weighted(a.Vel.X, b.Vel.X), Y: weighted(a.Vel.Y, b.Vel.Y)},
		Mass:    total,
		Density: (a.Density + b.Density) / 2,
		Color:   dynamo.Blend(a.Color, b.Color),
		Trail:   a.Trail.Concat(b.Trail),
	}
	out.Radius = CalculateRadius(out.Mass, out.Density)
	return out
}

// ResolveCollisions merges overlapping bodies in a single left-to-right
// sweep. Each unconsumed body becomes an accumulator that absorbs every
// later unconsumed body overlapping it at the time of the check, so a chain
// A-B-C collapses when the growing A+B reaches C. newID names each product.
//
// The input is not modified. Surviving bodies keep their relative order and
// the product takes its earliest member's place.
func ResolveCollisions(reg dynamo.Registry, newID func() string) (dynamo.Registry, []dynamo.Merge) {
	n := len(reg)
	sets := newDisjointSet(n)
	consumed := make([]bool, n)
	products := make(map[int]dynamo.Body)

	for i := 0; i < n; i++ {
		if consumed[i] {
			continue
		}

		acc, absorbed := reg[i], false
		for j := i + 1; j < n; j++ {
			if consumed[j] || !overlaps(&acc, &reg[j]) {
				continue
			}
			acc = mergePair(acc, reg[j])
			sets.absorb(i, j)
			consumed[j] = true
			absorbed = true
		}
		if absorbed {
			products[i] = acc
		}
	}

	groups := make(map[int][]int, len(products))
	for k := 0; k < n; k++ {
		if root := sets.find(k); root != k {
			groups[root] = append(groups[root], k)
		}
	}

	out := make(dynamo.Registry, 0, n)
	var merges []dynamo.Merge
	for i := 0; i < n; i++ {
		if consumed[i] {
			continue
		}
		absorbed, merged := groups[i]
		if !merged {
			out = append(out, reg[i].Clone())
			continue
		}
		p := products[i]
		p.ID = newID()
		out = append(out, p)
		merges = append(merges, dynamo.Merge{ID: p.ID, Members: append([]int{i}, absorbed...)})
	}

	return out, merges
}
