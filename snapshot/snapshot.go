// Package snapshot parses the external channel-topology JSON format into a
// ready-to-run engine/network.Model, and derives each channel-direction's
// unconditional-fee coefficients from the success-fee coefficients already
// present in the snapshot.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/s-tikhomirov/jamsim/engine/htlc"
	"github.com/s-tikhomirov/jamsim/engine/network"
)

// ChannelEntry is one row of the snapshot's channel list. Each undirected
// channel appears twice, once per direction; a direction absent from the
// snapshot is disabled in the resulting model.
type ChannelEntry struct {
	Source              string `json:"source"`
	Destination         string `json:"destination"`
	ShortChannelID      string `json:"short_channel_id"`
	Satoshis            int64  `json:"satoshis"`
	Active              bool   `json:"active"`
	BaseFeeMillisatoshi int64  `json:"base_fee_millisatoshi"`
	FeePerMillionth     int64  `json:"fee_per_millionth"`
}

// FeeCoeffs converts the snapshot's integer millisatoshi/per-millionth fee
// fields into the engine's float base/rate success-fee coefficients.
func (e ChannelEntry) FeeCoeffs() (base, rate float64) {
	return float64(e.BaseFeeMillisatoshi) / 1000, float64(e.FeePerMillionth) / 1_000_000
}

// UpfrontCoeffs derives unconditional-fee coefficients for a direction by
// scaling its success-fee coefficients by the sweep's current
// upfront_base_coeff / upfront_rate_coeff multipliers.
func UpfrontCoeffs(baseSuccess, rateSuccess, upfrontBaseCoeff, upfrontRateCoeff float64) (base, rate float64) {
	return upfrontBaseCoeff * baseSuccess, upfrontRateCoeff * rateSuccess
}

// Options parameterizes how a snapshot is turned into a model.
type Options struct {
	NumSlotsPerChannelDirection int
	UpfrontBaseCoeff            float64
	UpfrontRateCoeff            float64
}

// Load parses a snapshot document and builds a network.Model from it,
// applying opts.UpfrontBaseCoeff/UpfrontRateCoeff uniformly to every
// channel-direction (the sweep grid's one point at a time).
func Load(r io.Reader, opts Options) (*network.Model, error) {
	var doc struct {
		Channels []ChannelEntry `json:"channels"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("snapshot: failed to decode: %w", err)
	}

	byID := make(map[network.ChannelID]*network.Channel)
	order := make([]network.ChannelID, 0)
	m := network.NewModel()

	// Both directions must be set on a Channel before it is handed to
	// Model.AddChannel, since AddChannel reads Enabled(dir) at call time to
	// build the routing graph — adding it with either direction still nil
	// would permanently drop that routing edge.
	for _, e := range doc.Channels {
		if !e.Active {
			continue
		}
		id := network.ChannelID(e.ShortChannelID)
		c, ok := byID[id]
		if !ok {
			a, b := network.Node(e.Source), network.Node(e.Destination)
			nodeA, nodeB := a, b
			if b < a {
				nodeA, nodeB = b, a
			}
			c = &network.Channel{ID: id, Capacity: e.Satoshis, NodeA: nodeA, NodeB: nodeB}
			byID[id] = c
			order = append(order, id)
		}

		dir, _ := network.DirectionBetween(network.Node(e.Source), network.Node(e.Destination))
		baseSuccess, rateSuccess := e.FeeCoeffs()
		baseUpfront, rateUpfront := UpfrontCoeffs(baseSuccess, rateSuccess, opts.UpfrontBaseCoeff, opts.UpfrontRateCoeff)
		c.Directions[dir] = htlc.NewChannelDirection(baseSuccess, rateSuccess, baseUpfront, rateUpfront, opts.NumSlotsPerChannelDirection)
	}

	for _, id := range order {
		m.AddChannel(byID[id])
	}

	return m, nil
}
