package network

import "sort"

// Hop is the unordered pair of nodes and the non-empty set of Channels
// between them. Routing picks one channel per hop.
type Hop struct {
	NodeA, NodeB Node
	Channels     []*Channel
}

// Qualifying returns the subset of channels that have direction d enabled
// and capacity >= amount, sorted cheapest-first: ascending by
// success_fee(amount) + upfront_fee(amount), ties broken by channel id
// ascending for determinism (spec §4.2).
func (h *Hop) Qualifying(d Direction, amount int64) []*Channel {
	var out []*Channel
	for _, c := range h.Channels {
		if !c.Enabled(d) {
			continue
		}
		if c.Capacity < amount {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].Direction(d), out[j].Direction(d)
		feeI := ci.BaseSuccess + ci.RateSuccess*float64(amount) + ci.BaseUpfront + ci.RateUpfront*float64(amount)
		feeJ := cj.BaseSuccess + cj.RateSuccess*float64(amount) + cj.BaseUpfront + cj.RateUpfront*float64(amount)
		if feeI != feeJ {
			return feeI < feeJ
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Cheapest returns the single cheapest qualifying channel for direction d
// and amount, or nil if none qualifies.
func (h *Hop) Cheapest(d Direction, amount int64) *Channel {
	qs := h.Qualifying(d, amount)
	if len(qs) == 0 {
		return nil
	}
	return qs[0]
}

// HasCapableChannel reports whether at least one channel in the hop
// supports amount in direction d.
func (h *Hop) HasCapableChannel(d Direction, amount int64) bool {
	for _, c := range h.Channels {
		if c.Enabled(d) && c.Capacity >= amount {
			return true
		}
	}
	return false
}

// Other returns the neighbor node reached from n across this hop.
func (h *Hop) Other(n Node) Node {
	if n == h.NodeA {
		return h.NodeB
	}
	return h.NodeA
}
