package domain

// AnalysisState tracks one analysis run. Runs start Idle and move forward
// through the states in order; any failure moves to Error, which is terminal
// for that run.
type AnalysisState string

const (
	AnalysisStateIdle         AnalysisState = "idle"
	AnalysisStateFetching     AnalysisState = "fetching"
	AnalysisStateSummarizing  AnalysisState = "summarizing"
	AnalysisStateRecommending AnalysisState = "recommending"
	AnalysisStateRendered     AnalysisState = "rendered"
	AnalysisStateError        AnalysisState = "error"
)

func (s AnalysisState) IsTerminal() bool {
	return s == AnalysisStateRendered || s == AnalysisStateError
}

var nextAnalysisState = map[AnalysisState]AnalysisState{
	AnalysisStateIdle:         AnalysisStateFetching,
	AnalysisStateFetching:     AnalysisStateSummarizing,
	AnalysisStateSummarizing:  AnalysisStateRecommending,
	AnalysisStateRecommending: AnalysisStateRendered,
}

// CanTransition reports whether a run may move from s to next.
func (s AnalysisState) CanTransition(next AnalysisState) bool {
	if s.IsTerminal() {
		return false
	}
	if next == AnalysisStateError {
		return true
	}
	return nextAnalysisState[s] == next
}
