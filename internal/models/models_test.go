package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserState(t *testing.T) {
	state := NewUserState("player-1")

	assert.Equal(t, "player-1", state.UserID)
	assert.Equal(t, InitialDifficulty, state.Difficulty)
	assert.Equal(t, 0, state.Version)
	assert.Zero(t, state.Streak)
	assert.Zero(t, state.TotalScore)
}

func TestUserState_Accuracy(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		correct  int
		expected float64
	}{
		{"no answers counts as perfect", 0, 0, 1.0},
		{"all correct", 10, 10, 1.0},
		{"half correct", 10, 5, 0.5},
		{"none correct", 4, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &UserState{TotalQuestions: tt.total, CorrectAnswers: tt.correct}
			assert.InDelta(t, tt.expected, state.Accuracy(), 1e-9)
		})
	}
}

func TestQuestion_FingerprintNeverSerialized(t *testing.T) {
	q := Question{
		ID:                "q1",
		Difficulty:        5,
		Prompt:            "What is the capital of France?",
		Choices:           []string{"London", "Paris"},
		AnswerFingerprint: "deadbeef",
	}

	raw, err := json.Marshal(q)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "deadbeef")
	assert.NotContains(t, string(raw), "fingerprint")
}
