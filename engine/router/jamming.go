package router

import (
	"sort"

	"github.com/s-tikhomirov/jamsim/engine/network"
)

// TargetPair is one (upstream, downstream) directed hop the attacker wants
// to saturate.
type TargetPair struct {
	From, To network.Node
}

// JammingIterator lazily enumerates candidate jamming routes per spec §4.4:
// for decreasing subset size N (from maxTargetsPerRoute down to 1), for
// each N-subset of the currently-unjammed targets, for each permutation of
// that subset, build the route
//
//	sender -> p1.From -> p1.To -> p2.From -> p2.To -> ... -> pN.To -> receiver
//
// by concatenating shortest sub-paths between each consecutive pair of
// anchors (non-simple routes allowed — the same node or edge may recur).
// liveTargets is called fresh on every Next(): whenever it reports a
// different target set than last time (because the engine jammed one or
// more targets and removed them), the subset/permutation search restarts
// against the new, smaller set — per the design note in spec §9 that "the
// outer subset/permutation loop is re-evaluated against the shrunken T".
// Combinations and permutations are generated lazily by direct unranking
// (combinatorics.go), so no candidate list is ever materialized up front.
type JammingIterator struct {
	model             *network.Model
	sender, receiver  network.Node
	amount            int64
	maxTargetsPerRoute int
	liveTargets       func() []TargetPair

	lastLive []TargetPair
	n        int
	comboIdx int
	permIdx  int
	done     bool
}

// NewJammingIterator builds a jamming route iterator. liveTargets must
// return the attacker's currently-unjammed target set, sorted
// deterministically, each time it's called — the caller (engine/sim) owns
// the mutable target set and is expected to shrink it as targets get hit.
func NewJammingIterator(model *network.Model, sender, receiver network.Node, amount int64, maxTargetsPerRoute int, liveTargets func() []TargetPair) *JammingIterator {
	return &JammingIterator{
		model:              model,
		sender:             sender,
		receiver:           receiver,
		amount:             amount,
		maxTargetsPerRoute: maxTargetsPerRoute,
		liveTargets:        liveTargets,
	}
}

// Next returns the next candidate route, or (nil, false) once every
// subset/permutation of the current live target set (down to size 1) has
// been tried and failed to build, or the live target set is empty.
func (it *JammingIterator) Next() ([]network.Node, bool) {
	if it.done {
		return nil, false
	}

	for {
		live := it.liveTargets()
		if len(live) == 0 {
			it.done = true
			return nil, false
		}

		if !sameTargets(live, it.lastLive) {
			it.lastLive = live
			it.n = min(it.maxTargetsPerRoute, len(live))
			it.comboIdx = 0
			it.permIdx = 0
		}

		if it.n < 1 {
			it.done = true
			return nil, false
		}

		total := binom(len(live), it.n)
		if it.comboIdx >= total {
			it.n--
			it.comboIdx = 0
			it.permIdx = 0
			continue
		}

		permTotal := factorial(it.n)
		if it.permIdx >= permTotal {
			it.comboIdx++
			it.permIdx = 0
			continue
		}

		positions := combinationAt(len(live), it.n, it.comboIdx)
		order := permutationAt(positions, it.permIdx)
		it.permIdx++

		anchors := make([]network.Node, 0, 2+2*it.n)
		anchors = append(anchors, it.sender)
		for _, pos := range order {
			anchors = append(anchors, live[pos].From, live[pos].To)
		}
		anchors = append(anchors, it.receiver)

		route, ok := concatenate(it.model, anchors, it.amount, nil)
		if !ok {
			continue
		}
		return route, true
	}
}

func sameTargets(a, b []TargetPair) bool {
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

// SortTargets sorts a target slice into the deterministic order liveTargets
// callbacks are expected to produce.
func SortTargets(t []TargetPair) {
	sort.Slice(t, func(i, j int) bool {
		if t[i].From != t[j].From {
			return t[i].From < t[j].From
		}
		return t[i].To < t[j].To
	})
}
