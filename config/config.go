package config

import (
	"errors"
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	Storage  string         `yaml:"storage" env:"STORAGE" env-default:"postgres"`
	Telegram TelegramConfig `yaml:"telegram"`
	Postgres PostgresConfig `yaml:"postgres"`
	XP       XPConfig       `yaml:"xp"`
}

type TelegramConfig struct {
	BotToken string  `yaml:"bot_token" env:"BOT_TOKEN"`
	AdminIDs []int64 `yaml:"admin_ids" env:"ADMIN_IDS"`
}

type PostgresConfig struct {
	Host           string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port           string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	DatabaseName   string `yaml:"database_name" env:"POSTGRES_DB" env-default:"v1lefarm"`
	Username       string `yaml:"username" env:"POSTGRES_USER" env-default:"postgres"`
	Password       string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"postgres"`
	MaxConnections int    `yaml:"max_connections" env-default:"10"`
}

// XPConfig канонический график наград: порог уровня level*10,
// +1 за /start, +2 за размещенный заказ, +5 за принятый
type XPConfig struct {
	Factor              int  `yaml:"factor" env-default:"10"`
	StartReward         int  `yaml:"start_reward" env-default:"1"`
	OrderPlacedReward   int  `yaml:"order_placed_reward" env-default:"2"`
	OrderAcceptedReward int  `yaml:"order_accepted_reward" env-default:"5"`
	WeeklyReset         bool `yaml:"weekly_reset" env:"XP_WEEKLY_RESET" env-default:"false"`
}

// Validate проверяет обязательные значения, без которых бот не стартует
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return errors.New("telegram bot token is required")
	}

	if len(c.Telegram.AdminIDs) == 0 {
		return errors.New("at least one admin id is required")
	}

	return nil
}

// MustLoad загружает конфигурацию из файла
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

// MustLoadPath загружает конфигурацию из указанного файла
func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath получает путь к конфигурационному файлу из флага или переменной окружения
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
