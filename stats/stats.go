// Package stats aggregates the reactive-step controller's per-cycle
// candidate/acceptance counts into run-level summaries and an optional
// history plot.
package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// CycleRecord is one reactive-step cycle's statistics line: candidate
// count plus per-template attempted/accepted counts.
type CycleRecord struct {
	Cycle      int
	Candidates int
	Accepted   map[string]int
	Attempted  map[string]int
}

// Recorder accumulates CycleRecords across a run and derives run-level
// mean/stddev summaries.
type Recorder struct {
	records []CycleRecord
}

// Add appends one cycle's record.
func (r *Recorder) Add(rec CycleRecord) {
	r.records = append(r.records, rec)
}

// Records returns every recorded cycle, in cycle order.
func (r *Recorder) Records() []CycleRecord {
	return r.records
}

// CandidateStats returns the mean and (sample, unweighted) standard
// deviation of the per-cycle candidate counts across the run.
func (r *Recorder) CandidateStats() (mean, stddev float64) {
	if len(r.records) == 0 {
		return 0, 0
	}
	values := make([]float64, len(r.records))
	for i, rec := range r.records {
		values[i] = float64(rec.Candidates)
	}
	mean = stat.Mean(values, nil)
	stddev = stat.StdDev(values, nil)
	return mean, stddev
}

// AcceptanceRate returns, per template, the total accepted divided by total
// attempted across the run (0 if the template was never attempted).
func (r *Recorder) AcceptanceRate(template string) float64 {
	var accepted, attempted int
	for _, rec := range r.records {
		accepted += rec.Accepted[template]
		attempted += rec.Attempted[template]
	}
	if attempted == 0 {
		return 0
	}
	return float64(accepted) / float64(attempted)
}

// StatisticsLine formats one cycle's record as a fixed-width column line:
// cycle, candidate count, then the space-joined accepted/attempted counts
// per template in template order.
func StatisticsLine(rec CycleRecord, templateOrder []string) string {
	line := fmt.Sprintf("%10d%15d", rec.Cycle, rec.Candidates)
	for _, t := range templateOrder {
		line += fmt.Sprintf(" %d", rec.Accepted[t])
	}
	for _, t := range templateOrder {
		line += fmt.Sprintf(" %d", rec.Attempted[t])
	}
	return line
}
