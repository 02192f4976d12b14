package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineStatusTransitions(t *testing.T) {
	all := []LineStatus{LineStatusPending, LineStatusConfirmed, LineStatusCompleted, LineStatusCancelled}
	allowed := map[LineStatus][]LineStatus{
		LineStatusPending:   {LineStatusConfirmed, LineStatusCancelled},
		LineStatusConfirmed: {LineStatusCompleted, LineStatusCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestLineStatusTransitionError(t *testing.T) {
	got, err := LineStatusCompleted.Transition(LineStatusCompleted)
	require.Error(t, err)
	assert.Equal(t, LineStatusCompleted, got)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "completed", te.From)
}

func TestCartStatusTransitions(t *testing.T) {
	assert.True(t, CartStatusActive.CanTransitionTo(CartStatusPaid))
	assert.False(t, CartStatusPaid.CanTransitionTo(CartStatusActive))
	assert.False(t, CartStatusPaid.CanTransitionTo(CartStatusPaid))
}
