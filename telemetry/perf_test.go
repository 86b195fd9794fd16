package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseSync)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseWorld)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.AvgFrame <= 0 {
		t.Error("expected positive average frame duration")
	}
	if _, ok := stats.PhaseAvg[PhaseSync]; !ok {
		t.Error("expected sync phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseWorld]; !ok {
		t.Error("expected world phase to be tracked")
	}
	if stats.MinFrame > stats.AvgFrame || stats.AvgFrame > stats.MaxFrame {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinFrame, stats.AvgFrame, stats.MaxFrame)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseHUD)
		time.Sleep(10 * time.Microsecond)
		pc.EndFrame()
	}

	if n := pc.Frames(); n != 5 {
		t.Errorf("frames = %d, want window size 5", n)
	}
	if pc.Stats().AvgFrame <= 0 {
		t.Error("expected positive average frame duration after window filled")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseOverlay)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseWorld)
		time.Sleep(2 * time.Millisecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseWorld] <= stats.PhasePct[PhaseOverlay] {
		t.Errorf("expected world (%v%%) > overlay (%v%%)", stats.PhasePct[PhaseWorld], stats.PhasePct[PhaseOverlay])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(0).Stats()

	if stats.AvgFrame != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}
