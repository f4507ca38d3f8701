package purchase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Transitions(t *testing.T) {
	assert.True(t, StateIdle.CanTransition(StateRequiresWallet))
	assert.True(t, StateIdle.CanTransition(StateProcessing))
	assert.True(t, StateRequiresWallet.CanTransition(StateProcessing))
	assert.True(t, StateProcessing.CanTransition(StateSuccess))
	assert.True(t, StateProcessing.CanTransition(StateFailed))
	assert.True(t, StateFailed.CanTransition(StateIdle))

	assert.False(t, StateIdle.CanTransition(StateSuccess))
	assert.False(t, StateSuccess.CanTransition(StateProcessing))
	assert.False(t, StateFailed.CanTransition(StateSuccess))
	assert.False(t, StateRequiresWallet.CanTransition(StateFailed))
}

func TestAttempt_History(t *testing.T) {
	a := NewAttempt("2")
	require.NoError(t, a.Transition(StateProcessing))
	require.NoError(t, a.Transition(StateFailed))
	require.NoError(t, a.Transition(StateIdle))

	err := a.Transition(StateSuccess)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateIdle, a.State())
	assert.Equal(t, []State{StateIdle, StateProcessing, StateFailed, StateIdle}, a.History())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "requires_wallet", StateRequiresWallet.String())
	assert.True(t, StateSuccess.Terminal())
	assert.False(t, StateProcessing.Terminal())

	text, err := StateFailed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "failed", string(text))

	var parsed State
	require.NoError(t, parsed.UnmarshalText([]byte("processing")))
	assert.Equal(t, StateProcessing, parsed)
	assert.Error(t, parsed.UnmarshalText([]byte("done")))
}
