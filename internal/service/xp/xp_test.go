package xp

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"v1lefarmBot/internal/domain/models"
	"v1lefarmBot/internal/repository/memory"
)

func newTestLedger(t *testing.T) (*Ledger, *memory.UserStorage) {
	t.Helper()

	users := memory.NewUserStorage()
	cfg := Config{Factor: 10, StartReward: 1, OrderPlacedReward: 2, OrderAcceptedReward: 5}

	return New(slog.Default(), users, cfg), users
}

// totalXP возвращает суммарный накопленный опыт с учетом потраченного на уровни
func totalXP(u *models.User, factor int) int {
	total := u.XP
	for l := 1; l < u.Level; l++ {
		total += l * factor
	}

	return total
}

func TestGrant_Rollover(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.EnsureUser(ctx, 1, "alice")
	require.NoError(t, err)

	// 10 XP закрывают первый уровень целиком
	user, err := ledger.Grant(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, user.Level)
	assert.Equal(t, 0, user.XP)

	// Большое начисление прокатывается через несколько уровней
	user, err = ledger.Grant(ctx, 1, 55)
	require.NoError(t, err)
	assert.Equal(t, 4, user.Level)
	assert.Equal(t, 5, user.XP)
}

func TestGrant_InvariantHoldsForRandomSequences(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.EnsureUser(ctx, 1, "alice")
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	granted := 0

	for i := 0; i < 500; i++ {
		amount := rng.Intn(17)
		granted += amount

		user, err := ledger.Grant(ctx, 1, amount)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, user.XP, 0)
		assert.Less(t, user.XP, user.Level*10)
		assert.Equal(t, granted, totalXP(user, 10), "xp must be conserved")
	}
}

func TestGrant_ConcurrentGrantsSerialize(t *testing.T) {
	ledger, users := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.EnsureUser(ctx, 1, "alice")
	require.NoError(t, err)

	const workers = 20
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := ledger.Grant(ctx, 1, 3)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	user, err := users.Get(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, workers*perWorker*3, totalXP(user, 10))
	assert.Less(t, user.XP, user.Level*10)
}

func TestGrant_UnknownUser(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Grant(context.Background(), 404, 1)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestEnsureUser_UpdatesUsername(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	user, err := ledger.EnsureUser(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, user.Level)

	user, err = ledger.EnsureUser(ctx, 1, "alice_renamed")
	require.NoError(t, err)
	assert.Equal(t, "alice_renamed", user.Username)
}

func TestResetAll(t *testing.T) {
	ledger, users := newTestLedger(t)
	ctx := context.Background()

	for id := int64(1); id <= 3; id++ {
		_, err := ledger.EnsureUser(ctx, id, "")
		require.NoError(t, err)
		_, err = ledger.Grant(ctx, id, 42)
		require.NoError(t, err)
	}

	require.NoError(t, ledger.ResetAll(ctx))

	all, err := users.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	for _, user := range all {
		assert.Equal(t, 0, user.XP)
		assert.Equal(t, 1, user.Level)
	}
}
