// Package ledger implements the revenue ledger: a per-node running balance
// mutated only by HTLC resolution and by the unconditional-fee debit/credit
// applied at forward time, never by a simulation's routing decisions
// themselves.
package ledger

import (
	"sort"

	"github.com/s-tikhomirov/jamsim/engine/network"
)

// Ledger is a per-node running balance. Grounded on the teacher's
// engine/models/settlement.go response-accumulation shape and
// storage/postgres's hash-chained ledger concept (the persistence layer,
// storage/resultstore, chains Result snapshots the same way; this type is
// the in-memory accumulator underneath it, required directly by spec
// invariant I2: balances sum to zero at all times since every entry here is
// a paired debit/credit between two neighbors).
type Ledger struct {
	balances map[network.Node]float64
}

// New constructs an empty ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[network.Node]float64)}
}

// Transfer moves amount from debtor to creditor: debtor -= amount, creditor
// += amount. Every mutation to the ledger goes through Transfer, which is
// what keeps the zero-sum invariant (I2) mechanically true regardless of
// how many transfers have been applied.
func (l *Ledger) Transfer(debtor, creditor network.Node, amount float64) {
	l.balances[debtor] -= amount
	l.balances[creditor] += amount
}

// Balance returns a node's current balance (zero if the node has never been
// party to a transfer).
func (l *Ledger) Balance(n network.Node) float64 {
	return l.balances[n]
}

// Reset clears all balances, used between simulation runs (spec §5's
// shared-resource policy: the ledger is owned by exactly one run).
func (l *Ledger) Reset() {
	for k := range l.balances {
		delete(l.balances, k)
	}
}

// Snapshot returns a copy of every recorded balance, keyed by node
// (including balances that have netted out to zero).
func (l *Ledger) Snapshot() map[network.Node]float64 {
	out := make(map[network.Node]float64, len(l.balances))
	for n, b := range l.balances {
		out[n] = b
	}
	return out
}

// Sum returns the sum of all balances — used by tests asserting I2
// (should always be ~0 up to floating-point rounding).
func (l *Ledger) Sum() float64 {
	var total float64
	for _, b := range l.balances {
		total += b
	}
	return total
}

// Nodes returns the set of nodes with a recorded balance, sorted for
// deterministic iteration (result serialization, reports).
func (l *Ledger) Nodes() []network.Node {
	out := make([]network.Node, 0, len(l.balances))
	for n := range l.balances {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
