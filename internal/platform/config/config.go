package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DBConfig struct {
	DSN string
}

type AuthConfig struct {
	// Vacío => modo dev (X-Debug-User-ID / X-Debug-Role).
	JWTSecret string
}

type LogConfig struct {
	Level  string
	Format string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != "" && strings.TrimSpace(c.From) != ""
}

type DirectoryConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type NotifyConfig struct {
	WebhookURL string
	APIKey     string
	Timeout    time.Duration
}

type Config struct {
	App       string
	HTTP      HTTPConfig
	DB        DBConfig
	Auth      AuthConfig
	Log       LogConfig
	SMTP      SMTPConfig
	Directory DirectoryConfig
	Notify    NotifyConfig
}

// Load lee config desde (en orden de prioridad): env MEDIVAULT_*, el archivo
// indicado (opcional) y defaults. Ej: MEDIVAULT_DB_DSN, MEDIVAULT_SMTP_HOST.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "medivault")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 5*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("directory.timeout", 5*time.Second)
	v.SetDefault("notify.timeout", 5*time.Second)

	v.SetEnvPrefix("MEDIVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	// Compat con el despliegue anterior (PORT / DB_DSN sin prefijo).
	_ = v.BindEnv("http.port", "PORT")
	_ = v.BindEnv("db.dsn", "MEDIVAULT_DB_DSN", "DB_DSN")

	c := Config{
		App: v.GetString("app.name"),
		HTTP: HTTPConfig{
			Addr:         v.GetString("http.addr"),
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
		},
		DB: DBConfig{
			DSN: v.GetString("db.dsn"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.username"),
			Password: v.GetString("smtp.password"),
			From:     v.GetString("smtp.from"),
		},
		Directory: DirectoryConfig{
			BaseURL: v.GetString("directory.base_url"),
			APIKey:  v.GetString("directory.api_key"),
			Timeout: v.GetDuration("directory.timeout"),
		},
		Notify: NotifyConfig{
			WebhookURL: v.GetString("notify.webhook_url"),
			APIKey:     v.GetString("notify.api_key"),
			Timeout:    v.GetDuration("notify.timeout"),
		},
	}

	if port := strings.TrimSpace(v.GetString("http.port")); port != "" {
		c.HTTP.Addr = ":" + port
	}

	return c, nil
}
