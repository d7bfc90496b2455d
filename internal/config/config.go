package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
		TimeoutSec  int   `mapstructure:"timeout_sec"`

		// SessionTTL простой сессии чата до вытеснения, 0 без вытеснения
		SessionTTL time.Duration `mapstructure:"session_ttl"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Forwarder struct {
		URL       string
		QueueSize int           `mapstructure:"queue_size"`
		Timeout   time.Duration `mapstructure:"timeout"`
	} `mapstructure:"forwarder"`

	Barstore struct {
		Addr   string
		DBPath string `mapstructure:"db_path"`
	} `mapstructure:"barstore"`

	Catalog struct {
		Source string
	} `mapstructure:"catalog"`
}

const (
	CatalogBuiltin = "builtin"
	CatalogDB      = "db"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("telegram.timeout_sec", 30)
	v.SetDefault("telegram.session_ttl", 24*time.Hour)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("forwarder.url", "http://127.0.0.1:5000/add_bar")
	v.SetDefault("forwarder.queue_size", 64)
	v.SetDefault("forwarder.timeout", 3*time.Second)
	v.SetDefault("barstore.addr", ":5000")
	v.SetDefault("barstore.db_path", "")
	v.SetDefault("catalog.source", CatalogBuiltin)
}

// Load читает YAML по пути path. Отсутствующий файл не ошибка: работают
// значения по умолчанию и переменные окружения APP_*.
func Load(path string) (Config, error) {
	var c Config

	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("barstore.db_path", "APP_BARSTORE_DB_PATH", "BARSTORE_DB_PATH")
	_ = v.BindEnv("telegram.token", "APP_TELEGRAM_TOKEN", "TELEGRAM_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.Catalog.Source {
	case CatalogBuiltin, CatalogDB:
	default:
		return fmt.Errorf("config: catalog.source must be %q or %q, got %q", CatalogBuiltin, CatalogDB, c.Catalog.Source)
	}
	if c.Telegram.SessionTTL < 0 {
		return fmt.Errorf("config: telegram.session_ttl must not be negative")
	}
	if c.Forwarder.QueueSize < 0 {
		return fmt.Errorf("config: forwarder.queue_size must not be negative")
	}
	return nil
}
