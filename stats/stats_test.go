package stats

import "testing"

func TestCandidateStatsMeanAndStdDev(t *testing.T) {
	r := &Recorder{}
	r.Add(CycleRecord{Cycle: 1, Candidates: 2})
	r.Add(CycleRecord{Cycle: 2, Candidates: 4})
	r.Add(CycleRecord{Cycle: 3, Candidates: 6})

	mean, stddev := r.CandidateStats()
	if mean != 4 {
		t.Errorf("mean = %v, want 4", mean)
	}
	if stddev <= 0 {
		t.Errorf("expected positive stddev, got %v", stddev)
	}
}

func TestAcceptanceRate(t *testing.T) {
	r := &Recorder{}
	r.Add(CycleRecord{Cycle: 1, Accepted: map[string]int{"bond": 1}, Attempted: map[string]int{"bond": 2}})
	r.Add(CycleRecord{Cycle: 2, Accepted: map[string]int{"bond": 1}, Attempted: map[string]int{"bond": 2}})

	if rate := r.AcceptanceRate("bond"); rate != 0.5 {
		t.Errorf("AcceptanceRate = %v, want 0.5", rate)
	}
	if rate := r.AcceptanceRate("unknown"); rate != 0 {
		t.Errorf("AcceptanceRate for unattempted template = %v, want 0", rate)
	}
}

func TestStatisticsLineFormatting(t *testing.T) {
	rec := CycleRecord{
		Cycle:      5,
		Candidates: 3,
		Accepted:   map[string]int{"bond": 1},
		Attempted:  map[string]int{"bond": 2},
	}
	line := StatisticsLine(rec, []string{"bond"})
	if line == "" {
		t.Errorf("expected non-empty statistics line")
	}
}
