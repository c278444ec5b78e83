package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestMustLoadPath(t *testing.T) {
	path := writeConfig(t, `
env: prod
storage: memory
telegram:
  bot_token: "123:abc"
  admin_ids:
    - 100
    - 200
xp:
  factor: 10
  order_accepted_reward: 5
`)

	cfg := MustLoadPath(path)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, []int64{100, 200}, cfg.Telegram.AdminIDs)
	assert.Equal(t, 10, cfg.XP.Factor)
	assert.Equal(t, 5, cfg.XP.OrderAcceptedReward)
}

func TestMustLoadPath_Defaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: "123:abc"
  admin_ids: [100]
`)

	cfg := MustLoadPath(path)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 10, cfg.XP.Factor)
	assert.Equal(t, 1, cfg.XP.StartReward)
	assert.Equal(t, 2, cfg.XP.OrderPlacedReward)
	assert.Equal(t, 5, cfg.XP.OrderAcceptedReward)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
}

func TestMustLoadPath_MissingFilePanics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoadPath(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{BotToken: "123:abc", AdminIDs: []int64{1}},
	}
	assert.NoError(t, cfg.Validate())

	noToken := &Config{Telegram: TelegramConfig{AdminIDs: []int64{1}}}
	assert.Error(t, noToken.Validate())

	noAdmins := &Config{Telegram: TelegramConfig{BotToken: "123:abc"}}
	assert.Error(t, noAdmins.Validate())
}
