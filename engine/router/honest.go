package router

import "github.com/s-tikhomirov/jamsim/engine/network"

// HonestIterator yields candidate routes from sender to receiver for an
// honest payment, in roughly non-decreasing hop-count order, honoring
// must_route_via (spec §5/§9's resolution: a route satisfies must_route_via
// by visiting the named nodes, in order, as waypoints — built here by
// concatenating shortest sub-paths sender -> via[0] -> via[1] -> ... ->
// receiver). After the first (globally shortest concatenated) route, each
// subsequent call excludes one more previously-used edge and re-solves, in
// the spirit of the teacher's Yen's-algorithm spur/exclusion loop but over
// hop count rather than channel weight — this module's router only needs
// "give me another route if the last one failed partway through", not a
// complete enumeration of all simple paths.
type HonestIterator struct {
	model    *network.Model
	anchors  []network.Node
	amount   int64
	excluded map[edgeKey]bool
	yielded  [][]network.Node
	lastPath []network.Node
	cursor   int
	done     bool
}

// NewHonestIterator builds an iterator for sender -> receiver carrying
// amount, with via inserted as ordered waypoints.
func NewHonestIterator(model *network.Model, sender, receiver network.Node, amount int64, via []network.Node) *HonestIterator {
	anchors := make([]network.Node, 0, len(via)+2)
	anchors = append(anchors, sender)
	anchors = append(anchors, via...)
	anchors = append(anchors, receiver)
	return &HonestIterator{
		model:    model,
		anchors:  anchors,
		amount:   amount,
		excluded: make(map[edgeKey]bool),
	}
}

// Next returns the next candidate route, or (nil, false) once the iterator
// is exhausted.
func (it *HonestIterator) Next() ([]network.Node, bool) {
	if it.done {
		return nil, false
	}

	if it.lastPath == nil {
		path, ok := concatenate(it.model, it.anchors, it.amount, it.excluded)
		if !ok {
			it.done = true
			return nil, false
		}
		it.lastPath = path
		it.yielded = append(it.yielded, path)
		return path, true
	}

	// Exclude edges of the last-yielded path one at a time, retrying the
	// full concatenation after each exclusion, until a genuinely new route
	// is found or every edge of every yielded path has been excluded.
	for it.cursor < len(it.lastPath)-1 {
		edge := edgeKey{it.lastPath[it.cursor], it.lastPath[it.cursor+1]}
		it.cursor++
		if it.excluded[edge] {
			continue
		}
		it.excluded[edge] = true

		path, ok := concatenate(it.model, it.anchors, it.amount, it.excluded)
		if !ok {
			continue
		}
		if it.isNew(path) {
			it.lastPath = path
			it.cursor = 0
			it.yielded = append(it.yielded, path)
			return path, true
		}
	}

	it.done = true
	return nil, false
}

func (it *HonestIterator) isNew(path []network.Node) bool {
	for _, p := range it.yielded {
		if sameRoute(p, path) {
			return false
		}
	}
	return true
}

func sameRoute(a, b []network.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
