package workers

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync/atomic"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	cpus := runtime.NumCPU()

	tests := []struct {
		name     string
		n, items int
		expected int
	}{
		{"all cpus", -1, 0, cpus},
		{"zero means all cpus", 0, 0, cpus},
		{"explicit", 3, 10, 3},
		{"capped by items", 8, 2, 2},
		{"single", 1, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.n, tt.items); got != tt.expected {
				t.Errorf("Resolve(%d, %d) = %d, expected %d", tt.n, tt.items, got, tt.expected)
			}
		})
	}
}

func TestMap(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}

	for _, n := range []int{1, 3, -1} {
		out, err := Map(context.Background(), n, items, func(ctx context.Context, i int) (int, error) {
			return i * i, nil
		})
		if err != nil {
			t.Fatalf("workers=%d: unexpected error: %v", n, err)
		}

		sort.Ints(out)
		want := []int{1, 4, 9, 16, 25, 36, 49, 64}
		if len(out) != len(want) {
			t.Fatalf("workers=%d: expected %d results, got %d", n, len(want), len(out))
		}
		for i := range want {
			if out[i] != want[i] {
				t.Errorf("workers=%d: result %d = %d, expected %d", n, i, out[i], want[i])
			}
		}
	}
}

func TestMap_Empty(t *testing.T) {
	out, err := Map(context.Background(), 4, nil, func(ctx context.Context, i int) (int, error) {
		t.Error("fn should not be called")
		return 0, nil
	})
	if err != nil || out != nil {
		t.Errorf("expected nil, nil; got %v, %v", out, err)
	}
}

func TestMap_BoundsConcurrency(t *testing.T) {
	var running, peak int32
	items := make([]int, 20)

	_, err := Map(context.Background(), 2, items, func(ctx context.Context, _ int) (struct{}, error) {
		cur := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak > 2 {
		t.Errorf("expected at most 2 concurrent calls, saw %d", peak)
	}
}

func TestMap_FirstErrorCancels(t *testing.T) {
	boom := errors.New("boom")
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	out, err := Map(context.Background(), 1, items, func(ctx context.Context, i int) (int, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if i == 2 {
			return 0, boom
		}
		return i, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if out != nil {
		t.Errorf("expected no results on error, got %v", out)
	}
}
