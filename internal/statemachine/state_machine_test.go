package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"v1lefarmBot/internal/domain/models"
)

func TestHandleEvent_LinearDialogue(t *testing.T) {
	sm := NewStateMachine()

	step, err := sm.HandleEvent(models.StepIdle, EventStartCommand)
	require.NoError(t, err)
	assert.Equal(t, models.StepAwaitingProduct, step)

	step, err = sm.HandleEvent(step, EventProductSelected)
	require.NoError(t, err)
	assert.Equal(t, models.StepAwaitingAmount, step)

	step, err = sm.HandleEvent(step, EventAmountAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StepAwaitingConfirmation, step)

	step, err = sm.HandleEvent(step, EventConfirm)
	require.NoError(t, err)
	assert.Equal(t, models.StepIdle, step)
}

func TestHandleEvent_StartResetsFromAnyStep(t *testing.T) {
	sm := NewStateMachine()

	steps := []models.SessionStep{
		models.StepIdle,
		models.StepAwaitingProduct,
		models.StepAwaitingAmount,
		models.StepAwaitingConfirmation,
	}

	for _, from := range steps {
		step, err := sm.HandleEvent(from, EventStartCommand)
		require.NoError(t, err)
		assert.Equal(t, models.StepAwaitingProduct, step, "start from %s", from)
	}
}

func TestHandleEvent_CancelClearsFromAnyStep(t *testing.T) {
	sm := NewStateMachine()

	steps := []models.SessionStep{
		models.StepAwaitingProduct,
		models.StepAwaitingAmount,
		models.StepAwaitingConfirmation,
	}

	for _, from := range steps {
		step, err := sm.HandleEvent(from, EventCancel)
		require.NoError(t, err)
		assert.Equal(t, models.StepIdle, step, "cancel from %s", from)
	}
}

func TestHandleEvent_TextKeepsStep(t *testing.T) {
	sm := NewStateMachine()

	for _, step := range []models.SessionStep{
		models.StepIdle,
		models.StepAwaitingProduct,
		models.StepAwaitingAmount,
		models.StepAwaitingConfirmation,
	} {
		next, err := sm.HandleEvent(step, EventTextMessage)
		require.NoError(t, err)
		assert.Equal(t, step, next)
	}
}

func TestHandleEvent_OutOfOrderEventKeepsStep(t *testing.T) {
	sm := NewStateMachine()

	// Подтверждение без введенной суммы
	step, err := sm.HandleEvent(models.StepAwaitingProduct, EventConfirm)
	assert.Error(t, err)
	assert.Equal(t, models.StepAwaitingProduct, step)

	// Выбор товара на шаге ввода суммы
	step, err = sm.HandleEvent(models.StepAwaitingAmount, EventProductSelected)
	assert.Error(t, err)
	assert.Equal(t, models.StepAwaitingAmount, step)
}

func TestCanTransition(t *testing.T) {
	sm := NewStateMachine()

	assert.True(t, sm.canTransition(models.StepAwaitingProduct, models.StepAwaitingAmount))
	assert.True(t, sm.canTransition(models.StepAwaitingConfirmation, models.StepIdle))
	// Остаться на месте можно всегда
	assert.True(t, sm.canTransition(models.StepIdle, models.StepIdle))
	assert.False(t, sm.canTransition(models.StepIdle, models.StepAwaitingConfirmation))
	assert.False(t, sm.canTransition(models.StepAwaitingProduct, models.StepAwaitingConfirmation))
}
