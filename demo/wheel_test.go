package demo

import (
	"net/http/httptest"
	"testing"

	"github.com/s-tikhomirov/jamsim/engine/network"
)

func TestWheelTopologyHubHasOneOutgoingEdgePerSpoke(t *testing.T) {
	m := WheelTopology(2)
	edges := m.Neighbors(network.Node("Hub"))
	if len(edges) != 2 {
		t.Fatalf("got %d outgoing edges from Hub, want 2 (one per spoke)", len(edges))
	}
}

func TestHandleAttackDemoRespondsWithJSON(t *testing.T) {
	d := NewChaosDemo(nil)

	req := httptest.NewRequest("GET", "/demo/attack", nil)
	rec := httptest.NewRecorder()

	d.HandleAttackDemo(rec, req)

	if rec.Code != 200 {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("got content type %q, want application/json", rec.Header().Get("Content-Type"))
	}
}
