package session

import (
	"sync"

	"v1lefarmBot/internal/domain/models"
	"v1lefarmBot/internal/statemachine"
	"v1lefarmBot/internal/validation"
)

// Tracker ведет диалог заказа для каждого пользователя.
// Сессии живут только в памяти и теряются при перезапуске процесса.
type Tracker struct {
	sm *statemachine.StateMachine

	mu       sync.RWMutex
	sessions map[int64]*models.Session
}

// NewTracker создает трекер сессий
func NewTracker() *Tracker {
	return &Tracker{
		sm:       statemachine.NewStateMachine(),
		sessions: make(map[int64]*models.Session),
	}
}

// Start начинает новый диалог, затирая предыдущую сессию пользователя
func (t *Tracker) Start(userID int64) models.Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := models.NewSession()
	t.sessions[userID] = s

	return *s
}

// Get возвращает копию текущей сессии пользователя
func (t *Tracker) Get(userID int64) (models.Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.sessions[userID]
	if !ok || s.Step == models.StepIdle {
		return models.Session{}, false
	}

	return *s, true
}

// SetMainMessage запоминает id живого сообщения-меню для редактирования in-place
func (t *Tracker) SetMainMessage(userID int64, messageID int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.sessions[userID]; ok {
		s.MainMessageID = messageID
	}
}

// SelectProduct записывает выбранный товар и переводит диалог на ввод суммы.
// Неизвестный ключ товара не двигает сессию.
func (t *Tracker) SelectProduct(userID int64, productKey string) (models.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[userID]
	if !ok || s.Step == models.StepIdle {
		return models.Session{}, models.ErrNoSession
	}

	if _, ok = models.ProductByKey(productKey); !ok {
		return *s, models.ErrUnknownProduct
	}

	next, err := t.sm.HandleEvent(s.Step, statemachine.EventProductSelected)
	if err != nil {
		return *s, models.ErrNoSession
	}

	s.Step = next
	s.Product = productKey
	s.Grams = 0
	s.Cash = 0

	return *s, nil
}

// EnterAmount разбирает введенную сумму и переводит диалог на подтверждение.
// При невалидном вводе сессия остается на шаге ввода суммы.
func (t *Tracker) EnterAmount(userID int64, text string) (models.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[userID]
	if !ok || s.Step != models.StepAwaitingAmount {
		return models.Session{}, models.ErrNoSession
	}

	product, ok := models.ProductByKey(s.Product)
	if !ok {
		return *s, models.ErrUnknownProduct
	}

	grams, cash, err := validation.ParseAmount(text, product.PricePerGram)
	if err != nil {
		return *s, err
	}

	next, err := t.sm.HandleEvent(s.Step, statemachine.EventAmountAccepted)
	if err != nil {
		return *s, models.ErrNoSession
	}

	s.Step = next
	s.Grams = grams
	s.Cash = cash

	return *s, nil
}

// Consume атомарно забирает подтвержденный черновик и завершает диалог.
// Проверка шага и удаление сессии происходят под одной блокировкой,
// поэтому из двух одновременных подтверждений черновик достанется ровно одному.
func (t *Tracker) Consume(userID int64) (models.Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[userID]
	if !ok || s.Step != models.StepAwaitingConfirmation {
		return models.Session{}, false
	}

	if _, err := t.sm.HandleEvent(s.Step, statemachine.EventConfirm); err != nil {
		return models.Session{}, false
	}

	draft := *s
	delete(t.sessions, userID)

	return draft, true
}

// Clear завершает диалог пользователя
func (t *Tracker) Clear(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.sessions, userID)
}
