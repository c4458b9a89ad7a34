// Package network owns the channel-graph topology: nodes, channels, hops,
// and the two graph views (undirected for state lookup, directed for
// routing) built over a single store of hops.
package network

import "github.com/s-tikhomirov/jamsim/engine/htlc"

// Node and Direction are defined in engine/htlc (the lower-level package:
// a channel direction's fee/slot state doesn't need the topology graph,
// but the topology graph needs to name directions and endpoints). Aliased
// here so callers of engine/network never need to import engine/htlc just
// to name a node or direction.
type Node = htlc.Node
type Direction = htlc.Direction

const (
	Alph    = htlc.Alph
	NonAlph = htlc.NonAlph
)

// DirectionBetween returns the Direction of a forward from upstream to
// downstream, along with the unordered pair key used to index the hop
// graph. It panics if upstream == downstream, which never happens for a
// valid channel (a channel's two endpoints are always distinct).
func DirectionBetween(upstream, downstream Node) (Direction, pairKey) {
	if upstream == downstream {
		panic("network: channel endpoints must be distinct")
	}
	if upstream < downstream {
		return Alph, newPairKey(upstream, downstream)
	}
	return NonAlph, newPairKey(downstream, upstream)
}

// pairKey is the canonical (lesser, greater) key used to index the
// undirected hop graph.
type pairKey struct {
	lo, hi Node
}

func newPairKey(a, b Node) pairKey {
	if a < b {
		return pairKey{lo: a, hi: b}
	}
	return pairKey{lo: b, hi: a}
}
