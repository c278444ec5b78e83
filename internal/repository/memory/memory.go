package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"v1lefarmBot/internal/domain/models"
	"v1lefarmBot/internal/repository"
)

// UserStorage in-memory хранилище пользователей.
// Используется в тестах и для локального запуска без базы.
type UserStorage struct {
	mu    sync.RWMutex
	users map[int64]models.User
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		users: make(map[int64]models.User),
	}
}

// Get возвращает пользователя по id
func (s *UserStorage) Get(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}

	return &user, nil
}

// Create создает нового пользователя с начальным прогрессом
func (s *UserStorage) Create(ctx context.Context, id int64, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := models.NewUser(id, username)
	s.users[id] = *user

	return user, nil
}

// Update сохраняет изменяемые поля пользователя
func (s *UserStorage) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.ID] = *user

	return nil
}

// All возвращает всех пользователей
func (s *UserStorage) All(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		u := user
		users = append(users, &u)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

// Count возвращает количество пользователей
func (s *UserStorage) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users), nil
}

// OrderStorage in-memory хранилище заказов
type OrderStorage struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]models.Order
}

func NewOrderStorage() *OrderStorage {
	return &OrderStorage{
		orders: make(map[uuid.UUID]models.Order),
	}
}

// Get возвращает заказ по id
func (s *OrderStorage) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}

	// Копируем relays, чтобы не делить срез с вызывающим кодом
	order.AdminRelays = append([]models.AdminRelay(nil), order.AdminRelays...)

	return &order, nil
}

// Create сохраняет новый заказ
func (s *OrderStorage) Create(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *order
	stored.AdminRelays = append([]models.AdminRelay(nil), order.AdminRelays...)
	s.orders[order.ID] = stored

	return nil
}

// Update сохраняет статус и admin relays заказа
func (s *OrderStorage) Update(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *order
	stored.AdminRelays = append([]models.AdminRelay(nil), order.AdminRelays...)
	s.orders[order.ID] = stored

	return nil
}

// ListByUser возвращает последние заказы пользователя, новые первыми
func (s *OrderStorage) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := s.userOrdersLocked(userID)
	if len(orders) > limit {
		orders = orders[:limit]
	}

	return orders, nil
}

// TrimHistory удаляет заказы пользователя сверх keep последних
func (s *OrderStorage) TrimHistory(ctx context.Context, userID int64, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.userOrdersLocked(userID)
	for i := keep; i < len(orders); i++ {
		delete(s.orders, orders[i].ID)
	}

	return nil
}

// CountByStatus возвращает количество заказов в разрезе статусов
func (s *OrderStorage) CountByStatus(ctx context.Context) (map[models.OrderStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.OrderStatus]int)
	for _, order := range s.orders {
		counts[order.Status]++
	}

	return counts, nil
}

func (s *OrderStorage) userOrdersLocked(userID int64) []models.Order {
	var orders []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders
}

// Проверка реализации интерфейсов
var (
	_ repository.Users  = (*UserStorage)(nil)
	_ repository.Orders = (*OrderStorage)(nil)
)
