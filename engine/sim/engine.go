// Package sim implements the simulation engine: the event loop, the
// forwarding state machine (forward.go), retry policy, and the end-of-run
// drain. Grounded on the teacher's engine/worker dispatch-loop shape
// (pop-work, process, advance) generalized to a discrete-event loop keyed
// by simulated time instead of wall-clock polling.
package sim

import (
	"math/rand"

	"github.com/s-tikhomirov/jamsim/engine/ledger"
	"github.com/s-tikhomirov/jamsim/engine/network"
	"github.com/s-tikhomirov/jamsim/engine/payment"
	"github.com/s-tikhomirov/jamsim/engine/result"
	"github.com/s-tikhomirov/jamsim/engine/router"
	"github.com/s-tikhomirov/jamsim/engine/schedule"
)

// Hooks lets an observer (monitor, demo) watch run progress without the
// core engine knowing anything about websockets or broadcasting. Either
// field may be left nil.
type Hooks struct {
	// OnHonestEvent fires after each honest-mode payment attempt resolves.
	OnHonestEvent func(ev schedule.Event, reached bool)
	// OnJammingBatch fires after each jamming batch resolves, with the
	// targets still unjammed at that point.
	OnJammingBatch func(ev schedule.Event, live []router.TargetPair, fullyJammed bool)
}

// Engine owns one network model for the duration of exactly one run (spec
// §5's shared-resource policy). Construct a fresh Engine (or call Reset)
// before every run.
type Engine struct {
	model   *network.Model
	ledger  *ledger.Ledger
	rnd     *rand.Rand
	params  Params
	simTime float64
	Hooks   Hooks
}

// New constructs an Engine over model, driven by rnd for every randomized
// choice (determinism, spec §5).
func New(model *network.Model, rnd *rand.Rand, params Params) *Engine {
	return &Engine{
		model:  model,
		ledger: ledger.New(),
		rnd:    rnd,
		params: params,
	}
}

// Reset clears HTLC queues and the ledger, preparing the engine (and its
// model) for another run over the same topology and fee coefficients.
func (e *Engine) Reset() {
	for _, cd := range e.model.AllChannelDirections() {
		cd.Reset()
	}
	e.ledger.Reset()
	e.simTime = 0
}

// HonestRunParams configures one honest-mode run.
type HonestRunParams struct {
	Senders   []network.Node
	Receivers []network.Node
}

// RunHonest runs the honest workload to completion (main loop + drain) and
// returns the resulting stats and ledger.
func (e *Engine) RunHonest(p HonestRunParams) result.Result {
	e.Reset()

	sched := schedule.PopulateHonest(e.rnd, schedule.HonestParams{
		PaymentsPerSecond:            e.params.HonestPaymentsPerSecond,
		AmountRange:                  schedule.AmountRange{Min: e.params.DustLimit, Max: e.params.DustLimit * 10},
		MinProcessingDelay:           e.params.MinProcessingDelay,
		ExpectedExtraProcessingDelay: e.params.ExpectedExtraProcessingDelay,
		Senders:                      p.Senders,
		Receivers:                    p.Receivers,
		EndTime:                      e.params.Duration,
	})

	var stats result.Stats

	for !sched.IsEmpty() {
		ev, ok := sched.PeekEarliest()
		if !ok || ev.Time > e.params.Duration {
			break
		}
		ev = sched.PopEarliest()
		e.simTime = ev.Time

		stats.NumSent++
		reached := e.runHonestEvent(ev)
		if reached {
			stats.NumReachedReceiver++
		} else {
			stats.NumFailed++
		}
		if e.Hooks.OnHonestEvent != nil {
			e.Hooks.OnHonestEvent(ev, reached)
		}
	}

	drain(e.model, e.ledger)

	return result.Result{Stats: stats, Revenues: e.ledger.Snapshot()}
}

func (e *Engine) runHonestEvent(ev schedule.Event) bool {
	it := router.NewHonestIterator(e.model, ev.Sender, ev.Receiver, ev.Amount, ev.MustRouteVia)

	for routeAttempt := 0; routeAttempt < e.params.MaxRoutesHonest; routeAttempt++ {
		route, ok := it.Next()
		if !ok {
			return false // ErrNoRoute: no more candidates, event ends in failure
		}

		hops, err := payment.Build(e.model, route, ev.Amount, ev.DesiredResult, ev.ProcessingDelay)
		if err != nil {
			continue // NoCapableChannel on this route: try the next one
		}

		for attempt := 0; attempt < e.params.MaxAttemptsPerRouteHonest; attempt++ {
			err := forward(hops, e.simTime, e.ledger, e.rnd, e.params.NoBalanceFailures, e.params.BalanceFailureProbability)
			if err == nil {
				return true
			}
			if _, jammed := err.(*SlotsJammedError); jammed {
				break // route replacement: this route is unusable right now
			}
			// BalanceFailureError: retry the same route.
		}
	}

	return false
}

// JammingRunParams configures one jamming-mode run.
type JammingRunParams struct {
	Attacker network.Node
	Victim   network.Node
}

// RunJamming runs the jamming workload to completion (main loop + drain).
func (e *Engine) RunJamming(p JammingRunParams) result.Result {
	e.Reset()

	targets := targetsForVictim(e.model, p.Victim)

	sched := schedule.PopulateJamming(schedule.JammingParams{
		Attacker:  p.Attacker,
		Victim:    p.Victim,
		DustLimit: e.params.DustLimit,
		JamDelay:  e.params.JamDelay,
		EndTime:   e.params.Duration,
	})

	var stats result.Stats

	for !sched.IsEmpty() {
		ev, ok := sched.PeekEarliest()
		if !ok || ev.Time > e.params.Duration {
			break
		}
		ev = sched.PopEarliest()
		e.simTime = ev.Time

		stats.NumSent++
		fullyJammed, remaining := e.runJammingBatch(ev, targets)
		if fullyJammed {
			stats.NumReachedReceiver++
		} else {
			stats.NumFailed++
		}
		if e.Hooks.OnJammingBatch != nil {
			e.Hooks.OnJammingBatch(ev, remaining, fullyJammed)
		}

		if next := e.simTime + e.params.JamDelay; next <= e.params.Duration {
			sched.Push(schedule.Event{
				Time:            next,
				Sender:          p.Attacker,
				Receiver:        p.Victim,
				Amount:          e.params.DustLimit,
				DesiredResult:   false,
				ProcessingDelay: e.params.JamDelay,
			})
		}
	}

	drain(e.model, e.ledger)

	return result.Result{Stats: stats, Revenues: e.ledger.Snapshot()}
}

// runJammingBatch drives one batch of jam payments against targets,
// returning whether every target was jammed before the iterator was
// exhausted (spec §4.6.d / B2).
func (e *Engine) runJammingBatch(ev schedule.Event, targets []router.TargetPair) (fullyJammed bool, remaining []router.TargetPair) {
	live := make(map[router.TargetPair]bool, len(targets))
	for _, t := range targets {
		live[t] = true
	}

	liveTargets := func() []router.TargetPair {
		out := make([]router.TargetPair, 0, len(live))
		for t := range live {
			out = append(out, t)
		}
		router.SortTargets(out)
		return out
	}

	it := router.NewJammingIterator(e.model, ev.Sender, ev.Receiver, ev.Amount, e.params.MaxTargetPairsPerRoute, liveTargets)

	for len(live) > 0 {
		route, ok := it.Next()
		if !ok {
			break // iterator exhausted before every target was jammed
		}

		hops, err := payment.Build(e.model, route, ev.Amount, false, ev.ProcessingDelay)
		if err != nil {
			continue
		}

		for attempt := 0; attempt < e.params.MaxAttemptsPerRouteJamming && len(live) > 0; attempt++ {
			err := forward(hops, e.simTime, e.ledger, e.rnd, true, 0)
			if jerr, ok := err.(*SlotsJammedError); ok {
				hit := router.TargetPair{From: hops[jerr.AtHop].Upstream, To: hops[jerr.AtHop].Downstream}
				delete(live, hit)
			}
		}
	}

	return len(live) == 0, liveTargets()
}

// targetsForVictim returns every directed (channel, direction) incident to
// victim — the attacker's default target set (spec §4.7's wheel example:
// all four directions of the victim's two channels).
func targetsForVictim(model *network.Model, victim network.Node) []router.TargetPair {
	seen := make(map[network.Node]bool)
	var out []router.TargetPair
	for _, edge := range model.Neighbors(victim) {
		out = append(out, router.TargetPair{From: victim, To: edge.To})
		seen[edge.To] = true
	}
	for neighbor := range seen {
		for _, edge := range model.Neighbors(neighbor) {
			if edge.To == victim {
				out = append(out, router.TargetPair{From: neighbor, To: victim})
			}
		}
	}
	router.SortTargets(out)
	return out
}
