package statemachine

import (
	"fmt"
	"sync"

	"v1lefarmBot/internal/domain/models"
)

// Event представляет событие, которое может вызвать переход шага сессии
type Event string

const (
	EventStartCommand    Event = "start_command"
	EventProductSelected Event = "product_selected"
	EventAmountAccepted  Event = "amount_accepted"
	EventConfirm         Event = "confirm"
	EventCancel          Event = "cancel"
	EventTextMessage     Event = "text_message"
)

// Transition описывает переход из одного шага в другой
type Transition struct {
	From models.SessionStep
	To   models.SessionStep
}

// StateMachine управляет переходами шагов диалога заказа
type StateMachine struct {
	transitions map[Transition]bool
	mu          sync.RWMutex
}

// NewStateMachine создает state machine с разрешенными переходами диалога
func NewStateMachine() *StateMachine {
	sm := &StateMachine{
		transitions: make(map[Transition]bool),
	}

	allowedTransitions := []Transition{
		// /start сбрасывает диалог в выбор товара из любого шага
		{models.StepIdle, models.StepAwaitingProduct},
		{models.StepAwaitingProduct, models.StepAwaitingProduct},
		{models.StepAwaitingAmount, models.StepAwaitingProduct},
		{models.StepAwaitingConfirmation, models.StepAwaitingProduct},

		// Линейное продвижение диалога
		{models.StepAwaitingProduct, models.StepAwaitingAmount},
		{models.StepAwaitingAmount, models.StepAwaitingConfirmation},

		// Подтверждение и отмена завершают сессию
		{models.StepAwaitingConfirmation, models.StepIdle},
		{models.StepAwaitingProduct, models.StepIdle},
		{models.StepAwaitingAmount, models.StepIdle},
	}

	for _, t := range allowedTransitions {
		sm.transitions[t] = true
	}

	return sm
}

// canTransition проверяет переход по таблице разрешенных переходов.
// Остаться на текущем шаге можно всегда.
// Вызывается под RLock, который берет HandleEvent.
func (sm *StateMachine) canTransition(from, to models.SessionStep) bool {
	return from == to || sm.transitions[Transition{from, to}]
}

// move применяет переход, сверяясь с таблицей
func (sm *StateMachine) move(from, to models.SessionStep) (models.SessionStep, error) {
	if !sm.canTransition(from, to) {
		return from, fmt.Errorf("transition from %s to %s is not allowed", from, to)
	}

	return to, nil
}

// HandleEvent определяет, на какой шаг нужно перейти на основе события и текущего шага.
// Событие, не имеющее смысла на текущем шаге, оставляет шаг без изменений и возвращает ошибку.
func (sm *StateMachine) HandleEvent(currentStep models.SessionStep, event Event) (models.SessionStep, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	// /start и отмена действуют одинаково на любом шаге
	switch event {
	case EventStartCommand:
		return sm.move(currentStep, models.StepAwaitingProduct)
	case EventCancel:
		return sm.move(currentStep, models.StepIdle)
	}

	switch currentStep {
	case models.StepIdle:
		switch event {
		case EventTextMessage:
			// Вне диалога свободный текст не двигает сессию
			return models.StepIdle, nil
		default:
			return currentStep, fmt.Errorf("unexpected event %s in step %s", event, currentStep)
		}

	case models.StepAwaitingProduct:
		switch event {
		case EventProductSelected:
			return sm.move(currentStep, models.StepAwaitingAmount)
		case EventTextMessage:
			return models.StepAwaitingProduct, nil
		default:
			return currentStep, fmt.Errorf("unexpected event %s in step %s", event, currentStep)
		}

	case models.StepAwaitingAmount:
		switch event {
		case EventAmountAccepted:
			return sm.move(currentStep, models.StepAwaitingConfirmation)
		case EventTextMessage:
			// Невалидная сумма: остаемся на шаге ввода
			return models.StepAwaitingAmount, nil
		default:
			return currentStep, fmt.Errorf("unexpected event %s in step %s", event, currentStep)
		}

	case models.StepAwaitingConfirmation:
		switch event {
		case EventConfirm:
			return sm.move(currentStep, models.StepIdle)
		case EventTextMessage:
			return models.StepAwaitingConfirmation, nil
		default:
			return currentStep, fmt.Errorf("unexpected event %s in step %s", event, currentStep)
		}

	default:
		return currentStep, fmt.Errorf("unknown step: %s", currentStep)
	}
}
