package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Push struct {
		Enabled   bool   `yaml:"enabled"`
		Endpoint  string `yaml:"endpoint"`
		ServerKey string `yaml:"server_key"`
		TimeoutS  int    `yaml:"timeout_seconds"`
	} `yaml:"push"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	Workers struct {
		MonitorIntervalS int `yaml:"monitor_interval_seconds"`
		ExpiryIntervalH  int `yaml:"expiry_interval_hours"`
		CleanupIntervalM int `yaml:"cleanup_interval_minutes"`
	} `yaml:"workers"`
}

// Интервалы с дефолтами: монитор 1с, закрытие просроченных 24ч,
// уборка осиротевших записей 1ч.

func (c *Config) MonitorInterval() time.Duration {
	if c.Workers.MonitorIntervalS <= 0 {
		return 1 * time.Second
	}
	return time.Duration(c.Workers.MonitorIntervalS) * time.Second
}

func (c *Config) ExpiryInterval() time.Duration {
	if c.Workers.ExpiryIntervalH <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Workers.ExpiryIntervalH) * time.Hour
}

func (c *Config) CleanupInterval() time.Duration {
	if c.Workers.CleanupIntervalM <= 0 {
		return 1 * time.Hour
	}
	return time.Duration(c.Workers.CleanupIntervalM) * time.Minute
}

func (c *Config) PushTimeout() time.Duration {
	if c.Push.TimeoutS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Push.TimeoutS) * time.Second
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		log.Println("Загрузка из config.yaml (режим НЕ-тест)")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		AppConfig = &cfg
		return
	}

	log.Println("✅ Загрузка конфигурации из ПЕРЕМЕННЫХ ОКРУЖЕНИЯ (режим теста)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))

	cfg.Push.Enabled = os.Getenv("FCM_SERVER_KEY") != ""
	cfg.Push.ServerKey = os.Getenv("FCM_SERVER_KEY")
	cfg.Push.Endpoint = os.Getenv("FCM_ENDPOINT")

	cfg.Email.Enabled = false
	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "noreply@bloodbridge.app"

	AppConfig = &cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
