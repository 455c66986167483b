package dynamo

import "gonum.org/v1/gonum/spatial/r2"

// Trail is the bounded history of a body's past positions. It is only
// read by renderers.
type Trail []r2.Vec

// Record samples p into the trail: a point is appended when the trail is
// empty or its length is a multiple of every, then at most one of the
// oldest points is evicted once the trail is longer than limit.
func (t Trail) Record(p r2.Vec, every, limit int) Trail {
	if len(t) == 0 || len(t)%every == 0 {
		t = append(t, p)
	}
	if len(t) > limit {
		t = t[1:]
	}
	return t
}

// Concat returns a new trail holding t followed by other.
func (t Trail) Concat(other Trail) Trail {
	out := make(Trail, 0, len(t)+len(other))
	out = append(out, t...)
	return append(out, other...)
}

func (t Trail) Clone() Trail {
	if t == nil {
		return nil
	}
	c := make(Trail, len(t))
	copy(c, t)
	return c
}
