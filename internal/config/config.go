// Package config предоставляет структуры и функции для загрузки конфигурации заглушки.
//
// Если задана переменная CONFIG_PATH, конфигурация читается из YAML-файла,
// иначе только из переменных окружения. Значения по умолчанию задают поведение
// эталонной заглушки: порт 8081 на всех интерфейсах.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Env — окружения, влияющие на формат логов.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config общая структура для хранения настроек
type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"local"`
	SeedFile    string `yaml:"seed_file" env:"SEED_FILE"`
	HTTPServer  `yaml:"http_server"`
	AdminServer `yaml:"admin_server"`
	RateLimit   `yaml:"rate_limit"`
}

// HTTPServer структура для настройки основного сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:"0.0.0.0:8081"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// AdminServer структура для настройки служебного сервера с /metrics и /docs.
// Пустой адрес отключает служебный сервер.
type AdminServer struct {
	AddressAdmin string `yaml:"address" env:"ADMIN_ADDRESS"`
}

// RateLimit структура для настройки ограничения частоты запросов.
// RPS равный нулю отключает ограничение.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"0"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

// Load читает конфигурацию из файла CONFIG_PATH или из окружения.
func Load() (*Config, error) {
	const op = "config.Load"
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: cannot read env: %w", op, err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read config: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, завершает процесс при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"SeedFile: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"AdminServer:\n"+
			"  Address: %s\n"+
			"RateLimit:\n"+
			"  RPS: %g\n"+
			"  Burst: %d\n",
		c.Env,
		c.SeedFile,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressAdmin,
		c.RPS,
		c.Burst,
	)
}
