package ledger

import (
	"math"
	"testing"

	"github.com/s-tikhomirov/jamsim/engine/network"
)

func TestTransferIsZeroSum(t *testing.T) {
	l := New()
	l.Transfer("A", "B", 1)
	l.Transfer("B", "A", 2)
	l.Transfer("A", "C", 0.5)

	if math.Abs(l.Sum()) > 1e-9 {
		t.Fatalf("ledger not zero-sum: %v", l.Sum())
	}
	if got, want := l.Balance("A"), -1.0+2.0-0.5; math.Abs(got-want) > 1e-9 {
		t.Fatalf("A balance = %v, want %v", got, want)
	}
}

func TestResetClears(t *testing.T) {
	l := New()
	l.Transfer("A", "B", 1)
	l.Reset()
	if l.Balance("A") != 0 || l.Balance("B") != 0 {
		t.Fatal("expected balances cleared after reset")
	}
	if len(l.Nodes()) != 0 {
		t.Fatal("expected no nodes after reset")
	}
}

func TestNodesSorted(t *testing.T) {
	l := New()
	l.Transfer("C", "A", 1)
	l.Transfer("B", "A", 1)
	nodes := l.Nodes()
	want := []network.Node{"A", "B", "C"}
	for i := range want {
		if nodes[i] != want[i] {
			t.Fatalf("got %v, want %v", nodes, want)
		}
	}
}
