package snapshot

import (
	"strings"
	"testing"

	"github.com/s-tikhomirov/jamsim/engine/network"
)

const sampleDoc = `{
  "channels": [
    {"source":"Alice","destination":"Bob","short_channel_id":"1x1x0","satoshis":100000,"active":true,"base_fee_millisatoshi":1000,"fee_per_millionth":1},
    {"source":"Bob","destination":"Alice","short_channel_id":"1x1x0","satoshis":100000,"active":true,"base_fee_millisatoshi":1000,"fee_per_millionth":1},
    {"source":"Bob","destination":"Carol","short_channel_id":"1x1x1","satoshis":50000,"active":false,"base_fee_millisatoshi":500,"fee_per_millionth":0}
  ]
}`

func TestLoadBuildsModelFromBothDirections(t *testing.T) {
	m, err := Load(strings.NewReader(sampleDoc), Options{NumSlotsPerChannelDirection: 10})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	alph, _ := network.DirectionBetween("Alice", "Bob")
	c := m.Channel(network.ChannelID("1x1x0"))
	if c == nil {
		t.Fatal("expected channel 1x1x0 to exist")
	}
	if !c.Enabled(alph) {
		t.Fatal("expected Alice->Bob direction enabled")
	}
	opp := alph.Opposite()
	if !c.Enabled(opp) {
		t.Fatal("expected Bob->Alice direction enabled")
	}
}

func TestLoadPopulatesRoutingGraph(t *testing.T) {
	m, err := Load(strings.NewReader(sampleDoc), Options{NumSlotsPerChannelDirection: 10})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	fromAlice := m.Neighbors(network.Node("Alice"))
	if len(fromAlice) != 1 || fromAlice[0].To != network.Node("Bob") {
		t.Fatalf("expected Alice's routing edges to reach Bob, got %+v", fromAlice)
	}

	fromBob := m.Neighbors(network.Node("Bob"))
	if len(fromBob) != 1 || fromBob[0].To != network.Node("Alice") {
		t.Fatalf("expected Bob's routing edges to reach Alice, got %+v", fromBob)
	}
}

func TestLoadSkipsInactiveChannels(t *testing.T) {
	m, err := Load(strings.NewReader(sampleDoc), Options{NumSlotsPerChannelDirection: 10})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c := m.Channel(network.ChannelID("1x1x1")); c != nil {
		t.Fatal("expected inactive channel to be skipped entirely")
	}
}

func TestUpfrontCoeffsScalesSuccessCoeffs(t *testing.T) {
	base, rate := UpfrontCoeffs(1, 0.5, 2, 4)
	if base != 2 || rate != 2 {
		t.Fatalf("got base=%v rate=%v, want base=2 rate=2", base, rate)
	}
}
