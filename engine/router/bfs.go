// Package router implements the route iterators spec §4.4 describes: a
// shortest-hop-count honest router (with must_route_via support) and a
// lazy subset/permutation jamming router. Grounded on the teacher's
// engine/router/yen.go: the spur-node/exclusion-set/candidate-heap shape
// of Yen's algorithm is reused (in honest.go) retargeted at unweighted
// hop-count paths instead of weighted ones.
package router

import "github.com/s-tikhomirov/jamsim/engine/network"

type edgeKey struct {
	from, to network.Node
}

// bfsPath finds the shortest path (by hop count) from -> to in the routing
// graph, requiring every hop to carry at least amount, skipping edges in
// excluded. Returns (nil, false) if no such path exists. A trivial
// zero-length path (from == to) returns a single-node slice.
func bfsPath(model *network.Model, from, to network.Node, amount int64, excluded map[edgeKey]bool) ([]network.Node, bool) {
	if from == to {
		return []network.Node{from}, true
	}

	visited := map[network.Node]bool{from: true}
	prev := map[network.Node]network.Node{}
	queue := []network.Node{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, edge := range model.Neighbors(cur) {
			if edge.Channel.Capacity < amount {
				continue
			}
			if excluded != nil && excluded[edgeKey{cur, edge.To}] {
				continue
			}
			if visited[edge.To] {
				continue
			}
			visited[edge.To] = true
			prev[edge.To] = cur

			if edge.To == to {
				return reconstruct(prev, from, to), true
			}
			queue = append(queue, edge.To)
		}
	}

	return nil, false
}

func reconstruct(prev map[network.Node]network.Node, from, to network.Node) []network.Node {
	path := []network.Node{to}
	n := to
	for n != from {
		n = prev[n]
		path = append([]network.Node{n}, path...)
	}
	return path
}

// concatenate builds a full route by concatenating shortest sub-paths
// between each consecutive pair of anchors. Non-simple routes are allowed
// (spec §4.7/§9): consecutive sub-paths are not required to avoid nodes or
// edges used elsewhere in the route. Returns (nil, false) if any segment is
// unreachable.
func concatenate(model *network.Model, anchors []network.Node, amount int64, excluded map[edgeKey]bool) ([]network.Node, bool) {
	if len(anchors) < 2 {
		return anchors, true
	}
	var route []network.Node
	for i := 0; i < len(anchors)-1; i++ {
		seg, ok := bfsPath(model, anchors[i], anchors[i+1], amount, excluded)
		if !ok {
			return nil, false
		}
		if i == 0 {
			route = append(route, seg...)
		} else {
			route = append(route, seg[1:]...) // skip duplicate anchor node
		}
	}
	return route, true
}
