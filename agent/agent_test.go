package agent

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/dots/arena"
	"github.com/pthm-cable/dots/geometry"
)

var testParams = Params{AccelLimit: 5, ClipFraction: 0.99, ClipMaxBackoff: 0.5}

func openArena(start, goal geometry.Vec, tolerance float64) *arena.Arena {
	return arena.New(geometry.NewRect(-10000, -10000, 10000, 10000), 0, nil, start, goal, tolerance)
}

func repeat(v geometry.Vec, n int) Genome {
	g := make(Genome, n)
	for i := range g {
		g[i] = v
	}
	return g
}

func TestStraightRunWins(t *testing.T) {
	up := geometry.Vec{X: 0, Y: -1}
	tests := []struct {
		name      string
		limit     float64
		tolerance float64
		wantUsed  int
		wantY     float64
	}{
		// travelled distance grows as k^2 once the limit is hit on step 2
		{"limit 2", 2, 10, 14, 100 - 196},
		// 1, 4, 10, 20, 35, 55, 80, 110, 145, 185
		{"limit 5", 5, 20, 10, 100 - 185},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := openArena(geometry.Vec{X: 0, Y: 100}, geometry.Vec{X: 0, Y: -100}, tt.tolerance)
			p := testParams
			p.AccelLimit = tt.limit
			ag := New(0, a, repeat(up, 200), 200, KindRegular, p)

			steps := 0
			for ag.Step() == StateAlive {
				steps++
				if steps > 200 {
					t.Fatal("agent never terminated")
				}
			}

			snap := ag.Snapshot()
			if snap.State != StateWon {
				t.Fatalf("state = %v, want won (pos %v)", snap.State, snap.Position)
			}
			if snap.Used != tt.wantUsed {
				t.Errorf("used = %d, want %d", snap.Used, tt.wantUsed)
			}
			if math.Abs(snap.Position.Y-tt.wantY) > 1e-6 || math.Abs(snap.Position.X) > 1e-9 {
				t.Errorf("position = %v, want (0, %v)", snap.Position, tt.wantY)
			}
			if math.Abs(snap.Travelled-(100-tt.wantY)) > 1e-6 {
				t.Errorf("travelled = %v, want %v", snap.Travelled, 100-tt.wantY)
			}

			n := float64(tt.wantUsed)
			want := 1.0/16 + 10000/(n*n)
			if f, ok := ag.Fitness(); !ok || math.Abs(f-want) > 1e-12 {
				t.Errorf("fitness = %v (ok=%v), want %v", f, ok, want)
			}
			if got := len(ag.UsedVectors()); got != tt.wantUsed {
				t.Errorf("used vectors = %d, want %d", got, tt.wantUsed)
			}
			if got := len(ag.Genome()); got != 200 {
				t.Errorf("genome length = %d, want 200", got)
			}
		})
	}
}

func TestWallKillsAndClipsOutside(t *testing.T) {
	wall := geometry.NewRect(-405, -5, 405, 5)
	a := arena.New(geometry.NewRect(-400, -400, 400, 400), 5, []geometry.Rect{wall},
		geometry.Vec{X: 0, Y: 100}, geometry.Vec{X: 0, Y: -100}, 10)
	ag := New(0, a, repeat(geometry.Vec{X: 0, Y: -1}, 200), 200, KindRegular, testParams)

	for ag.Step() == StateAlive {
	}

	snap := ag.Snapshot()
	if snap.State != StateDead {
		t.Fatalf("state = %v, want dead", snap.State)
	}
	// positions 20 after seven steps, then a 30 unit move crosses y=5
	if snap.Used != 7 {
		t.Errorf("used = %d, want 7", snap.Used)
	}
	gap := snap.Position.Y - wall.Bottom()
	if gap <= 0 || gap >= 1 {
		t.Errorf("final position %v is %v from the wall, want (0, 1)", snap.Position, gap)
	}
	if wall.Contains(snap.Position) {
		t.Errorf("final position %v inside wall", snap.Position)
	}
	// the wall spans the whole arena, so the goal is unreachable
	if f, ok := ag.Fitness(); !ok || f != 0 {
		t.Errorf("fitness = %v (ok=%v), want 0", f, ok)
	}
}

func TestClipBackoffBounded(t *testing.T) {
	wall := geometry.NewRect(-50, -5, 50, 5)
	a := openArena(geometry.Vec{X: 0, Y: 300}, geometry.Vec{X: 0, Y: -300}, 10)
	a = arena.New(a.Allowed(), 0, []geometry.Rect{wall}, a.Start(), a.Goal(), 10)
	p := testParams
	p.AccelLimit = 500
	// one giant step straight through the wall
	ag := New(0, a, Genome{{X: 0, Y: -400}}, 1, KindRegular, p)

	if s := ag.Step(); s != StateDead {
		t.Fatalf("state = %v, want dead", s)
	}
	pos := ag.Snapshot().Position
	if math.Abs(pos.Y-(wall.Bottom()+p.ClipMaxBackoff)) > 1e-9 {
		t.Errorf("final y = %v, want %v", pos.Y, wall.Bottom()+p.ClipMaxBackoff)
	}
	if f, ok := ag.Fitness(); !ok || f <= 0 {
		t.Errorf("fitness = %v (ok=%v), want positive", f, ok)
	}
}

func TestExhaustion(t *testing.T) {
	a := openArena(geometry.Vec{}, geometry.Vec{X: 0, Y: -5000}, 10)
	right := geometry.Vec{X: 1, Y: 0}

	tests := []struct {
		name     string
		genome   Genome
		maxLen   int
		wantUsed int
	}{
		{"genome runs out", repeat(right, 3), 10, 3},
		{"max length caps", repeat(right, 10), 4, 4},
		{"empty genome", Genome{}, 10, 0},
		{"zero max length", repeat(right, 5), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ag := New(1, a, tt.genome, tt.maxLen, KindRegular, testParams)
			for i := 0; i < 20 && ag.Step() == StateAlive; i++ {
			}
			snap := ag.Snapshot()
			if snap.State != StateExhausted {
				t.Fatalf("state = %v, want exhausted", snap.State)
			}
			if snap.Used != tt.wantUsed {
				t.Errorf("used = %d, want %d", snap.Used, tt.wantUsed)
			}
			d := geometry.Dist(snap.Position, a.Goal())
			if f, _ := ag.Fitness(); math.Abs(f-1/(d*d)) > 1e-15 {
				t.Errorf("fitness = %v, want %v", f, 1/(d*d))
			}
		})
	}
}

func TestAccelerationClamped(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := openArena(geometry.Vec{}, geometry.Vec{X: 9000, Y: 9000}, 1)

	for i := 0; i < 1000; i++ {
		g := make(Genome, 5)
		for j := range g {
			g[j] = r2.Scale(rng.Float64()*20, RandomUnit(rng))
		}
		ag := New(i, a, g, len(g), KindRegular, testParams)

		var want geometry.Vec
		for _, v := range g {
			if ag.Step() == StateDead {
				t.Fatalf("trial %d: agent died in an open arena", i)
			}
			want = r2.Add(want, v)
			norm := r2.Norm(want)
			if norm > testParams.AccelLimit {
				want = r2.Scale(testParams.AccelLimit/norm, want)
			}
			got := ag.Snapshot().Acceleration
			if r2.Norm(got) > testParams.AccelLimit+1e-9 {
				t.Fatalf("trial %d: |acc| = %v exceeds limit", i, r2.Norm(got))
			}
			if norm > testParams.AccelLimit && math.Abs(r2.Norm(got)-testParams.AccelLimit) > 1e-9 {
				t.Fatalf("trial %d: |acc| = %v, want exactly %v", i, r2.Norm(got), testParams.AccelLimit)
			}
			if r2.Norm(r2.Sub(got, want)) > 1e-9 {
				t.Fatalf("trial %d: acc = %v, want %v", i, got, want)
			}
		}
	}
}

func TestTerminalStatesAreSticky(t *testing.T) {
	wall := geometry.NewRect(-405, -5, 405, 5)
	walled := arena.New(geometry.NewRect(-400, -400, 400, 400), 5, []geometry.Rect{wall},
		geometry.Vec{X: 0, Y: 100}, geometry.Vec{X: 0, Y: -100}, 10)
	open := openArena(geometry.Vec{X: 0, Y: 100}, geometry.Vec{X: 0, Y: -100}, 20)
	up := geometry.Vec{X: 0, Y: -1}

	tests := []struct {
		name string
		ag   *Agent
		want State
	}{
		{"won", New(0, open, repeat(up, 50), 50, KindRegular, testParams), StateWon},
		{"dead", New(0, walled, repeat(up, 50), 50, KindRegular, testParams), StateDead},
		{"exhausted", New(0, open, repeat(up, 3), 50, KindChampion, testParams), StateExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for tt.ag.Step() == StateAlive {
			}
			before := tt.ag.Snapshot()
			if before.State != tt.want {
				t.Fatalf("state = %v, want %v", before.State, tt.want)
			}
			for i := 0; i < 10; i++ {
				if s := tt.ag.Step(); s != tt.want {
					t.Fatalf("step %d changed state to %v", i, s)
				}
			}
			if after := tt.ag.Snapshot(); after != before {
				t.Errorf("snapshot changed after terminal steps:\n%+v\n%+v", before, after)
			}
		})
	}
}

func TestFitnessUnavailableWhileAlive(t *testing.T) {
	a := openArena(geometry.Vec{}, geometry.Vec{X: 0, Y: -5000}, 10)
	ag := New(0, a, repeat(geometry.Vec{X: 1}, 10), 10, KindRegular, testParams)
	if _, ok := ag.Fitness(); ok {
		t.Error("fitness available before any step")
	}
	ag.Step()
	if _, ok := ag.Fitness(); ok {
		t.Error("fitness available while alive")
	}
}

func TestRunCompletes(t *testing.T) {
	a := openArena(geometry.Vec{X: 0, Y: 100}, geometry.Vec{X: 0, Y: -100}, 20)
	ag := New(0, a, repeat(geometry.Vec{X: 0, Y: -1}, 50), 50, KindRegular, testParams)
	if err := ag.Run(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s := ag.State(); s != StateWon {
		t.Errorf("state = %v, want won", s)
	}
}

func TestRunCancelled(t *testing.T) {
	a := openArena(geometry.Vec{}, geometry.Vec{X: 0, Y: -9000}, 10)
	ag := New(0, a, repeat(geometry.Vec{X: 1}, 1000), 1000, KindRegular, testParams)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ag.Run(ctx, 5*time.Millisecond) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	snap := ag.Snapshot()
	if snap.State != StateAlive {
		t.Errorf("state = %v, want alive after cancel", snap.State)
	}
	if snap.Used == 0 || snap.Used >= 1000 {
		t.Errorf("used = %d, want a partial run", snap.Used)
	}
}

func TestConcurrentSnapshots(t *testing.T) {
	a := openArena(geometry.Vec{}, geometry.Vec{X: 0, Y: -9000}, 10)
	ag := New(0, a, RandomGenome(rand.New(rand.NewSource(1)), 300), 300, KindRegular, testParams)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = ag.Run(context.Background(), 0)
	}()
	for i := 0; i < 100; i++ {
		s := ag.Snapshot()
		if r2.Norm(s.Acceleration) > testParams.AccelLimit+1e-9 {
			t.Fatalf("snapshot acceleration %v over limit", s.Acceleration)
		}
	}
	wg.Wait()
	if !ag.State().Terminal() {
		t.Error("agent not terminal after Run returned")
	}
}
