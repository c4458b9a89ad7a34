package network

import "github.com/s-tikhomirov/jamsim/engine/htlc"

// ChannelID identifies a channel (the snapshot's short_channel_id).
type ChannelID string

// Channel is identified by id, carries a capacity, and up to two directional
// states — one per Direction. A nil entry means that direction is disabled.
type Channel struct {
	ID         ChannelID
	Capacity   int64
	NodeA      Node // lesser endpoint (Alph forwards NodeA -> NodeB)
	NodeB      Node // greater endpoint
	Directions [2]*htlc.ChannelDirection
}

// Direction returns the ChannelDirection state for d, or nil if that
// direction is disabled.
func (c *Channel) Direction(d Direction) *htlc.ChannelDirection {
	return c.Directions[d]
}

// Enabled reports whether direction d is enabled on this channel.
func (c *Channel) Enabled(d Direction) bool {
	return c.Directions[d] != nil
}

// Endpoints returns the channel's two node endpoints.
func (c *Channel) Endpoints() (Node, Node) {
	return c.NodeA, c.NodeB
}

// From returns the upstream node for direction d.
func (c *Channel) From(d Direction) Node {
	if d == Alph {
		return c.NodeA
	}
	return c.NodeB
}

// To returns the downstream node for direction d.
func (c *Channel) To(d Direction) Node {
	if d == Alph {
		return c.NodeB
	}
	return c.NodeA
}
