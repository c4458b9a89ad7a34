package router

import (
	"testing"

	"github.com/s-tikhomirov/jamsim/engine/htlc"
	"github.com/s-tikhomirov/jamsim/engine/network"
)

// chain builds a model Sender - Hub - Receiver with a single channel per
// hop, each with ample capacity and two slots per direction.
func chain(t *testing.T) *network.Model {
	t.Helper()
	m := network.NewModel()
	add := func(id string, a, b network.Node) {
		c := &network.Channel{ID: network.ChannelID(id), Capacity: 1_000_000, NodeA: a, NodeB: b}
		c.Directions[network.Alph] = htlc.NewChannelDirection(0, 0, 0, 0, 2)
		c.Directions[network.NonAlph] = htlc.NewChannelDirection(0, 0, 0, 0, 2)
		m.AddChannel(c)
	}
	add("c1", "Hub", "Sender")
	add("c2", "Hub", "Receiver")
	return m
}

func TestHonestIteratorFindsDirectRoute(t *testing.T) {
	m := chain(t)
	it := NewHonestIterator(m, "Sender", "Receiver", 100, nil)
	route, ok := it.Next()
	if !ok {
		t.Fatal("expected a route")
	}
	want := []network.Node{"Sender", "Hub", "Receiver"}
	if !sameRoute(route, want) {
		t.Fatalf("got %v, want %v", route, want)
	}
}

func TestHonestIteratorMustRouteVia(t *testing.T) {
	m := chain(t)
	it := NewHonestIterator(m, "Sender", "Receiver", 100, []network.Node{"Hub"})
	route, ok := it.Next()
	if !ok {
		t.Fatal("expected a route")
	}
	want := []network.Node{"Sender", "Hub", "Receiver"}
	if !sameRoute(route, want) {
		t.Fatalf("got %v, want %v", route, want)
	}
}

func TestHonestIteratorExhausts(t *testing.T) {
	m := chain(t)
	it := NewHonestIterator(m, "Sender", "Receiver", 100, nil)
	if _, ok := it.Next(); !ok {
		t.Fatal("expected first route")
	}
	// Only one simple route exists between Sender and Receiver in this
	// topology, so the second call must exhaust the iterator.
	if _, ok := it.Next(); ok {
		t.Fatal("expected iterator to be exhausted")
	}
}

func TestJammingIteratorShrinksWithLiveTargets(t *testing.T) {
	m := chain(t)
	targets := []TargetPair{
		{From: "Hub", To: "Sender"},
		{From: "Hub", To: "Receiver"},
	}
	live := func() []TargetPair { return targets }

	it := NewJammingIterator(m, "Sender", "Receiver", 1, 2, live)
	route, ok := it.Next()
	if !ok {
		t.Fatal("expected a route")
	}
	if len(route) < 2 {
		t.Fatalf("route too short: %v", route)
	}

	// Simulate the engine jamming the first target and shrinking the set.
	targets = []TargetPair{{From: "Hub", To: "Receiver"}}
	route, ok = it.Next()
	if !ok {
		t.Fatal("expected a second route against the shrunken target set")
	}
	if len(route) < 2 {
		t.Fatalf("route too short: %v", route)
	}
}

func TestJammingIteratorExhaustsOnEmptyTargets(t *testing.T) {
	m := chain(t)
	it := NewJammingIterator(m, "Sender", "Receiver", 1, 2, func() []TargetPair { return nil })
	if _, ok := it.Next(); ok {
		t.Fatal("expected no route with no targets")
	}
}

func TestCombinatoricsRoundTrip(t *testing.T) {
	n, k := 5, 3
	seen := make(map[string]bool)
	total := binom(n, k)
	for i := 0; i < total; i++ {
		c := combinationAt(n, k, i)
		if len(c) != k {
			t.Fatalf("combination %d has wrong length: %v", i, c)
		}
		key := ""
		for _, v := range c {
			key += string(rune('0' + v))
		}
		if seen[key] {
			t.Fatalf("duplicate combination at idx %d: %v", i, c)
		}
		seen[key] = true
	}
	if len(seen) != total {
		t.Fatalf("got %d distinct combinations, want %d", len(seen), total)
	}
}

func TestPermutationAtRoundTrip(t *testing.T) {
	elems := []int{7, 8, 9}
	seen := make(map[string]bool)
	total := factorial(len(elems))
	for i := 0; i < total; i++ {
		p := permutationAt(elems, i)
		key := ""
		for _, v := range p {
			key += string(rune(v))
		}
		seen[key] = true
	}
	if len(seen) != total {
		t.Fatalf("got %d distinct permutations, want %d", len(seen), total)
	}
}
