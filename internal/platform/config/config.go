package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del servicio.
// Orden de carga: defaults -> .env (opcional) -> archivo TOML (opcional) -> env vars.
type Config struct {
	HTTP      HTTPConfig      `toml:"http"`
	Database  DatabaseConfig  `toml:"database"`
	Auth      AuthConfig      `toml:"auth"`
	Plans     PlansConfig     `toml:"plans"`
	Redis     RedisConfig     `toml:"redis"`
	RabbitMQ  RabbitMQConfig  `toml:"rabbitmq"`
	Share     ShareConfig     `toml:"share"`
	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

type HTTPConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

type DatabaseConfig struct {
	// DSN vacío => storage in-memory (modo dev).
	DSN         string `toml:"dsn"`
	AutoMigrate bool   `toml:"auto_migrate"`
}

// AuthConfig: si JWTSecret está seteado se verifica local (HS256).
// Si no, y hay IdentityURL, se delega al identity provider. Sin ninguno => modo dev (X-Debug-User-ID).
type AuthConfig struct {
	JWTSecret      string `toml:"jwt_secret"`
	JWTIssuer      string `toml:"jwt_issuer"`
	IdentityURL    string `toml:"identity_url"`
	IdentityAPIKey string `toml:"identity_api_key"`
}

type PlansConfig struct {
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	AllowAll bool   `toml:"allow_all"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type RabbitMQConfig struct {
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

type ShareConfig struct {
	// Origin del link público: <origin>/share/<token>
	Origin string `toml:"origin"`

	// Límite de resoluciones por IP y ventana en GET /share/{token}.
	RateLimit  int      `toml:"rate_limit"`
	RateWindow Duration `toml:"rate_window"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	App    string `toml:"app"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

// Duration permite escribir "5s" en TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{5 * time.Second},
			WriteTimeout: Duration{10 * time.Second},
		},
		Share: ShareConfig{
			Origin:     "http://localhost:8080",
			RateLimit:  60,
			RateWindow: Duration{time.Minute},
		},
		RabbitMQ: RabbitMQConfig{
			Exchange: "wellness_alerts",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "pet-health-core",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "pet-health-core",
		},
	}
}

// Load arma la config completa. path vacío => solo defaults + env.
func Load(path string) (Config, error) {
	// .env es opcional (dev); si no existe seguimos con el entorno real.
	_ = godotenv.Load()

	cfg := Default()

	if strings.TrimSpace(path) != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		if err := Decode(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode aplica un documento TOML sobre cfg (los campos ausentes conservan su valor).
func Decode(r io.Reader, cfg *Config) error {
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		cfg.HTTP.Addr = ":" + strings.TrimSpace(v)
	}
	str("HTTP_ADDR", &cfg.HTTP.Addr)

	str("DB_DSN", &cfg.Database.DSN)
	if err := boolEnv(lookup, "DB_AUTO_MIGRATE", &cfg.Database.AutoMigrate); err != nil {
		return err
	}

	str("AUTH_JWT_SECRET", &cfg.Auth.JWTSecret)
	str("AUTH_JWT_ISSUER", &cfg.Auth.JWTIssuer)
	str("IDENTITY_URL", &cfg.Auth.IdentityURL)
	str("IDENTITY_API_KEY", &cfg.Auth.IdentityAPIKey)

	str("PLANS_URL", &cfg.Plans.BaseURL)
	str("PLANS_API_KEY", &cfg.Plans.APIKey)
	if err := boolEnv(lookup, "ALLOW_ALL_CAPABILITIES", &cfg.Plans.AllowAll); err != nil {
		return err
	}

	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	if v, ok := lookup("REDIS_DB"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("REDIS_DB must be an integer: %w", err)
		}
		cfg.Redis.DB = n
	}

	str("RABBITMQ_URL", &cfg.RabbitMQ.URL)
	str("RABBITMQ_EXCHANGE", &cfg.RabbitMQ.Exchange)

	str("SHARE_ORIGIN", &cfg.Share.Origin)
	cfg.Share.Origin = strings.TrimRight(cfg.Share.Origin, "/")

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("APP_NAME", &cfg.Log.App)

	str("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Telemetry.OTLPEndpoint)
	str("OTEL_SERVICE_NAME", &cfg.Telemetry.ServiceName)

	return nil
}

func boolEnv(lookup func(string) (string, bool), key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	*dst = b
	return nil
}
