// Package demo replays the wheel-topology jamming attack live: a hub node
// connected to two spokes, with the attacker jamming every direction of the
// hub's channels batch by batch while a monitor.Hub broadcasts each step.
package demo

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/s-tikhomirov/jamsim/engine/htlc"
	"github.com/s-tikhomirov/jamsim/engine/network"
	"github.com/s-tikhomirov/jamsim/engine/result"
	"github.com/s-tikhomirov/jamsim/engine/router"
	"github.com/s-tikhomirov/jamsim/engine/schedule"
	"github.com/s-tikhomirov/jamsim/engine/sim"
	"github.com/s-tikhomirov/jamsim/monitor"
)

// WheelTopology builds the spec's worked-example wheel: a hub connected to
// two spokes, with the attacker hanging off one spoke.
func WheelTopology(numSlots int) *network.Model {
	m := network.NewModel()
	add := func(id string, a, b network.Node) {
		c := &network.Channel{ID: network.ChannelID(id), Capacity: 1_000_000, NodeA: a, NodeB: b}
		c.Directions[network.Alph] = htlc.NewChannelDirection(1, 0, 0, 0, numSlots)
		c.Directions[network.NonAlph] = htlc.NewChannelDirection(1, 0, 0, 0, numSlots)
		m.AddChannel(c)
	}
	add("spoke-alice", "Alice", "Hub")
	add("spoke-bob", "Bob", "Hub")
	add("spoke-attacker", "Attacker", "Alice")
	return m
}

// ChaosDemo drives the wheel-topology jamming attack and narrates it over a
// monitor.Hub, one jamming batch at a time.
type ChaosDemo struct {
	hub *monitor.Hub
	mu  sync.Mutex
}

// NewChaosDemo builds a demo narrated over hub.
func NewChaosDemo(hub *monitor.Hub) *ChaosDemo {
	return &ChaosDemo{hub: hub}
}

// RunResult summarizes one demo run for the HTTP caller.
type RunResult struct {
	RunID       string `json:"id"`
	Attacker    string `json:"attacker"`
	Victim      string `json:"victim"`
	NumBatches  int    `json:"num_batches"`
	AllJammed   bool   `json:"all_jammed_by_end"`
	TotalTimeMs int64  `json:"total_time_ms"`
}

// HandleAttackDemo handles GET /demo/attack: runs the wheel-jamming scenario
// and narrates every batch over the WebSocket hub before responding.
func (d *ChaosDemo) HandleAttackDemo(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	log.Println("demo: starting wheel-topology jamming attack")

	model := WheelTopology(2)
	params := sim.DefaultParams()
	params.JamDelay = 2
	params.Duration = 10
	params.MaxTargetPairsPerRoute = 4
	params.DustLimit = 1

	e := sim.New(model, rand.New(rand.NewSource(1)), params)
	e.Hooks.OnJammingBatch = func(ev schedule.Event, live []router.TargetPair, fullyJammed bool) {
		remaining := make([]string, len(live))
		for i, t := range live {
			remaining[i] = string(t.From) + "->" + string(t.To)
		}
		log.Printf("demo: batch at t=%.0f fully_jammed=%v remaining=%v", ev.Time, fullyJammed, remaining)
		if d.hub != nil {
			d.hub.BroadcastJammingBatch(&monitor.JammingBatchUpdate{
				Attacker:      string(ev.Sender),
				Victim:        string(ev.Receiver),
				FullyJammed:   fullyJammed,
				RemainingOpen: remaining,
				SimTime:       ev.Time,
			})
		}
		time.Sleep(300 * time.Millisecond)
	}

	res := e.RunJamming(sim.JammingRunParams{Attacker: "Attacker", Victim: "Hub"})
	allJammed := allTargetsJammedByEnd(res)

	if d.hub != nil {
		d.hub.BroadcastRunComplete(&monitor.RunCompleteUpdate{
			NumSent:            res.Stats.NumSent,
			NumFailed:          res.Stats.NumFailed,
			NumReachedReceiver: res.Stats.NumReachedReceiver,
		})
	}

	out := RunResult{
		RunID:       uuid.NewString(),
		Attacker:    "Attacker",
		Victim:      "Hub",
		NumBatches:  res.Stats.NumSent,
		AllJammed:   allJammed,
		TotalTimeMs: time.Since(start).Milliseconds(),
	}

	log.Printf("demo: finished after %d batches, all jammed by end: %v", out.NumBatches, out.AllJammed)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func allTargetsJammedByEnd(res result.Result) bool {
	return res.Stats.NumSent > 0 && res.Stats.NumReachedReceiver == res.Stats.NumSent
}

// HandleResetDemo handles POST /demo/reset: nothing persists between demo
// runs (each HandleAttackDemo call builds a fresh topology), so this only
// exists to give the frontend a symmetrical reset affordance.
func (d *ChaosDemo) HandleResetDemo(w http.ResponseWriter, r *http.Request) {
	log.Println("demo: reset requested (stateless — next /demo/attack starts clean)")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "demo state is stateless; call /demo/attack to run again",
	})
}
