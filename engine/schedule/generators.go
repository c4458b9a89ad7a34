package schedule

import (
	"math/rand"

	"github.com/s-tikhomirov/jamsim/engine/network"
)

// AmountRange is an inclusive [Min, Max] range honest payment amounts are
// drawn from uniformly.
type AmountRange struct {
	Min, Max int64
}

// HonestParams configures the honest event generator (spec §4.3).
type HonestParams struct {
	PaymentsPerSecond            float64
	AmountRange                  AmountRange
	MinProcessingDelay           float64
	ExpectedExtraProcessingDelay float64
	Senders                      []network.Node
	Receivers                    []network.Node
	EndTime                      float64
}

// PopulateHonest fills a Schedule with the honest random-payment workload
// per spec §4.3: exponential inter-arrivals at rate PaymentsPerSecond,
// amounts uniform over AmountRange, processing delay
// MinProcessingDelay + Exp(1/ExpectedExtraProcessingDelay), sender/receiver
// drawn uniformly from the configured candidate sets. Stops once the next
// draw's time exceeds EndTime. rnd drives every random draw, so a fixed
// seed reproduces the exact schedule (determinism, spec §5).
func PopulateHonest(rnd *rand.Rand, p HonestParams) *Schedule {
	s := New(p.EndTime)

	t := 0.0
	for {
		interArrival := rnd.ExpFloat64() / p.PaymentsPerSecond
		t += interArrival
		if t > p.EndTime {
			break
		}

		amount := p.AmountRange.Min
		if span := p.AmountRange.Max - p.AmountRange.Min; span > 0 {
			amount += rnd.Int63n(span + 1)
		}

		delay := p.MinProcessingDelay
		if p.ExpectedExtraProcessingDelay > 0 {
			delay += rnd.ExpFloat64() * p.ExpectedExtraProcessingDelay
		}

		sender := p.Senders[rnd.Intn(len(p.Senders))]
		receiver := p.Receivers[rnd.Intn(len(p.Receivers))]
		for receiver == sender && len(p.Receivers) > 1 {
			receiver = p.Receivers[rnd.Intn(len(p.Receivers))]
		}

		s.Push(Event{
			Time:            t,
			Sender:          sender,
			Receiver:        receiver,
			Amount:          amount,
			DesiredResult:   true,
			ProcessingDelay: delay,
		})
	}

	return s
}

// JammingParams configures the jamming workload's seed event (spec §4.3).
// Successor batches are pushed dynamically by the simulation engine (see
// engine/sim), not by this generator.
type JammingParams struct {
	Attacker   network.Node
	Victim     network.Node
	DustLimit  int64
	JamDelay   float64
	EndTime    float64
}

// PopulateJamming seeds a Schedule with the single t=0 jamming event per
// spec §4.3.
func PopulateJamming(p JammingParams) *Schedule {
	s := New(p.EndTime)
	s.Push(Event{
		Time:            0,
		Sender:          p.Attacker,
		Receiver:        p.Victim,
		Amount:          p.DustLimit,
		DesiredResult:   false,
		ProcessingDelay: p.JamDelay,
	})
	return s
}
