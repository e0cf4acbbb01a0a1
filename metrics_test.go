package mempool

import (
	"strings"
	"testing"
)

func TestPoolMetrics(t *testing.T) {
	p := MustNewPool[[32]byte](1024)

	// Test initial state
	if p.NumBlocks() != 0 {
		t.Errorf("Initial NumBlocks = %d, want 0", p.NumBlocks())
	}
	if p.Capacity() != 0 {
		t.Errorf("Initial Capacity = %d, want 0", p.Capacity())
	}
	if p.Utilization() != 0 {
		t.Errorf("Initial Utilization = %f, want 0", p.Utilization())
	}
	if p.SlotSize() != 32 {
		t.Errorf("SlotSize = %d, want 32", p.SlotSize())
	}
	if p.SlotsPerBlock() != 31 {
		t.Errorf("SlotsPerBlock = %d, want 31", p.SlotsPerBlock())
	}

	// Allocate some data
	var ptrs []*[32]byte
	for i := 0; i < 10; i++ {
		ptr, err := p.Alloc()
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		ptrs = append(ptrs, ptr)
	}
	if p.InUse() != 10 {
		t.Errorf("InUse = %d, want 10", p.InUse())
	}
	if p.SizeInUse() != 320 {
		t.Errorf("SizeInUse = %d, want 320", p.SizeInUse())
	}
	if p.Capacity() != 1024 {
		t.Errorf("Capacity = %d, want 1024", p.Capacity())
	}
	if u := p.Utilization(); u <= 0 || u > 1 {
		t.Errorf("Utilization = %f, want 0 < x <= 1", u)
	}

	p.Dealloc(ptrs[0])
	p.Dealloc(ptrs[1])
	if p.FreeSlots() != 2 {
		t.Errorf("FreeSlots = %d, want 2", p.FreeSlots())
	}
	if p.InUse() != 8 {
		t.Errorf("InUse after Dealloc = %d, want 8", p.InUse())
	}

	// Force block growth
	for i := 0; i < 40; i++ {
		if _, err := p.Alloc(); err != nil {
			t.Fatalf("Alloc: %v", err)
		}
	}
	if p.NumBlocks() != 2 {
		t.Errorf("NumBlocks after growth = %d, want 2", p.NumBlocks())
	}

	// Test metrics snapshot
	m := p.Metrics()
	if m.InUse != p.InUse() {
		t.Errorf("Metrics.InUse = %d, want %d", m.InUse, p.InUse())
	}
	if m.Capacity != p.Capacity() {
		t.Errorf("Metrics.Capacity = %d, want %d", m.Capacity, p.Capacity())
	}
	if m.NumBlocks != p.NumBlocks() {
		t.Errorf("Metrics.NumBlocks = %d, want %d", m.NumBlocks, p.NumBlocks())
	}
	if m.FreeSlots != 0 {
		t.Errorf("Metrics.FreeSlots = %d, want 0", m.FreeSlots)
	}
	if m.Source != "heap" {
		t.Errorf("Metrics.Source = %q, want heap", m.Source)
	}

	p.Release()
	if p.Capacity() != 0 || p.InUse() != 0 || p.Utilization() != 0 {
		t.Error("Expected empty metrics after Release()")
	}
}

func TestPoolMetricsString(t *testing.T) {
	p := MustNewPool[[32]byte](4096)
	defer p.Release()
	if _, err := p.Alloc(); err != nil {
		t.Fatal(err)
	}

	s := p.Metrics().String()
	for _, want := range []string{"source=heap", "blocks=1", "capacity=4.0 KiB", "in_use=1 (32 B)", "slot=32 B"} {
		if !strings.Contains(s, want) {
			t.Errorf("Metrics().String() = %q, missing %q", s, want)
		}
	}
}
