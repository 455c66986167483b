package analysis

import "github.com/san-kum/starmaker/internal/dynamo"

// mergedInto reports the product a body with id was absorbed into during a
// step that started from before.
func mergedInto(before dynamo.Registry, merges []dynamo.Merge, id string) (string, bool) {
	for _, m := range merges {
		for _, i := range m.Members {
			if before[i].ID == id {
				return m.ID, true
			}
		}
	}
	return "", false
}

// lineage maps the id each body started with to the id of the body that
// holds it now.
type lineage map[string]string

func newLineage(reg dynamo.Registry) lineage {
	l := make(lineage, len(reg))
	for _, b := range reg {
		l[b.ID] = b.ID
	}
	return l
}

// follow moves every entry through the merges of one step.
func (l lineage) follow(before dynamo.Registry, merges []dynamo.Merge) {
	if len(merges) == 0 {
		return
	}
	for origin, cur := range l {
		if id, ok := mergedInto(before, merges, cur); ok {
			l[origin] = id
		}
	}
}

type pair struct{ ref, pert int }

// matchBodies pairs the bodies of two copies of the same starting system,
// origin by origin in the order of start. Each perturbed body is paired
// at most once.
func matchBodies(start, ref, pert dynamo.Registry, lr, lp lineage) []pair {
	seen := make(map[int]bool, len(pert))
	out := make([]pair, 0, len(start))
	for _, b := range start {
		i, j := ref.IndexOf(lr[b.ID]), pert.IndexOf(lp[b.ID])
		if i < 0 || j < 0 || seen[j] {
			continue
		}
		seen[j] = true
		out = append(out, pair{ref: i, pert: j})
	}
	return out
}
