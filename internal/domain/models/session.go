package models

// SessionStep представляет шаг диалога оформления заказа
type SessionStep string

const (
	StepIdle                 SessionStep = "idle"
	StepAwaitingProduct      SessionStep = "awaiting_product"
	StepAwaitingAmount       SessionStep = "awaiting_amount"
	StepAwaitingConfirmation SessionStep = "awaiting_confirmation"
)

// Session хранит текущий шаг диалога пользователя и черновик заказа.
// Сессия живет только в памяти процесса и теряется при перезапуске.
type Session struct {
	Step          SessionStep
	Product       string
	Grams         float64
	Cash          float64
	MainMessageID int
}

// NewSession создает сессию на шаге выбора товара
func NewSession() *Session {
	return &Session{Step: StepAwaitingProduct}
}
