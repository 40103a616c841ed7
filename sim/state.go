package sim

// State is the population's run state.
//
// Transitions, evaluated once per Update:
//
//	from     condition                         to       action
//	Running  an agent enters the hole          Success  goal reward, broadcast
//	Running  all agents inactive / time limit  Running  train, reset, generation++
//	Running  otherwise                         Running  -
//	Success  any                               Success  - (frozen until Restart)
type State uint8

const (
	StateRunning State = iota
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// EndReason explains why a generation ended.
type EndReason uint8

const (
	EndNone EndReason = iota
	EndTimeLimit
	EndAllInactive
)

func (r EndReason) String() string {
	switch r {
	case EndTimeLimit:
		return "time_limit"
	case EndAllInactive:
		return "all_inactive"
	default:
		return "none"
	}
}

// GenerationSummary describes a generation that just ended, captured before
// the population was reset.
type GenerationSummary struct {
	Generation   int // number of the generation that ended
	Reason       EndReason
	EpisodeTime  float32
	Fitness      []float32 // per slot, before reset
	Elite        int
	EliteFitness float32
	BestFitness  float32 // best ever, after this generation
	NewBest      bool
	Inactive     int
}

// StepResult reports what a single Update did.
type StepResult struct {
	State State
	// SuccessIndex is the slot that reached the hole, or -1.
	SuccessIndex int
	// Ended is set when this tick closed a generation.
	Ended *GenerationSummary
}

// Succeeded reports whether this tick (or an earlier one) reached the goal.
func (r StepResult) Succeeded() bool {
	return r.State == StateSuccess
}
