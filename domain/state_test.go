package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisState_CanTransition(t *testing.T) {
	assert.True(t, AnalysisStateIdle.CanTransition(AnalysisStateFetching))
	assert.True(t, AnalysisStateFetching.CanTransition(AnalysisStateSummarizing))
	assert.True(t, AnalysisStateSummarizing.CanTransition(AnalysisStateRecommending))
	assert.True(t, AnalysisStateRecommending.CanTransition(AnalysisStateRendered))

	assert.False(t, AnalysisStateIdle.CanTransition(AnalysisStateRecommending), "no skipping")
	assert.False(t, AnalysisStateSummarizing.CanTransition(AnalysisStateFetching), "no going back")

	for _, s := range []AnalysisState{AnalysisStateIdle, AnalysisStateFetching, AnalysisStateSummarizing, AnalysisStateRecommending} {
		assert.True(t, s.CanTransition(AnalysisStateError), "%s may fail", s)
	}

	assert.False(t, AnalysisStateError.CanTransition(AnalysisStateIdle))
	assert.False(t, AnalysisStateRendered.CanTransition(AnalysisStateError))
}
