package main

import (
	"testing"

	"github.com/pthm-cable/holeswarm/sim"
)

func TestTallyRecord(t *testing.T) {
	tests := []struct {
		name string
		res  sim.StepResult
		want string
	}{
		{"still flying", sim.StepResult{State: sim.StateRunning, SuccessIndex: -1}, ""},
		{"success", sim.StepResult{State: sim.StateSuccess, SuccessIndex: 0}, "through the hole"},
		{"crash", sim.StepResult{SuccessIndex: -1, Ended: &sim.GenerationSummary{Reason: sim.EndAllInactive}}, "crashed"},
		{"timeout", sim.StepResult{SuccessIndex: -1, Ended: &sim.GenerationSummary{Reason: sim.EndTimeLimit}}, "timed out"},
	}

	var counts tally
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := counts.record(tt.res); got != tt.want {
				t.Errorf("record = %q, want %q", got, tt.want)
			}
		})
	}
	if counts != (tally{Through: 1, Crashed: 1, TimedOut: 1}) {
		t.Errorf("counts = %+v", counts)
	}
}
