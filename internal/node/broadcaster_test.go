package node

import "testing"

func TestTickIsNoopWithNoTargets(t *testing.T) {
	orig := uniformRandomFn
	defer func() { uniformRandomFn = orig }()

	called := false
	uniformRandomFn = func(n int) int {
		called = true
		return 0
	}

	table := NewTable("self:1000")
	transport := NewTransport()
	b := NewBroadcaster(table, transport, 0, testLogger())

	b.tick()

	if called {
		t.Fatal("expected uniformRandomFn not to be called when there are no broadcast targets")
	}
}

func TestTickDrawsRandomOnceRegardlessOfTargetCount(t *testing.T) {
	orig := uniformRandomFn
	defer func() { uniformRandomFn = orig }()

	calls := 0
	uniformRandomFn = func(n int) int {
		calls++
		return 7
	}

	table := NewTable("self:1000")
	transport := NewTransport()
	table.RecordOutbound(newTestHandle(), "peer-a:9000")
	table.RecordOutbound(newTestHandle(), "peer-b:9000")
	b := NewBroadcaster(table, transport, 0, testLogger())

	b.tick()

	if calls != 1 {
		t.Fatalf("expected exactly one random draw per tick, got %d", calls)
	}
}
