// Package config carga la configuración del servicio desde el entorno
// (y opcionalmente desde un archivo indicado en CONFIG_FILE).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTP    HTTP    `yaml:"http"`
	Log     Log     `yaml:"log"`
	Shelter Shelter `yaml:"shelter"`
	BaaS    BaaS    `yaml:"baas"`
	DB      DB      `yaml:"db"`
	Redis   Redis   `yaml:"redis"`
	MinIO   MinIO   `yaml:"minio"`
}

type HTTP struct {
	Port           string        `yaml:"port" env:"PORT" env-default:"8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT" env-default:"10s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT" env-default:"15s"`
	AllowedOrigins []string      `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`

	// DevAuth habilita los headers X-Debug-User-* (nunca en producción).
	DevAuth bool `yaml:"dev_auth" env:"DEV_AUTH" env-default:"false"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
	App    string `yaml:"app" env:"APP_NAME" env-default:"pet-adoption"`
}

type Shelter struct {
	URL      string        `yaml:"url" env:"SHELTER_API_URL" env-default:"https://openapi.gg.go.kr/AbdmAnimalProtect"`
	APIKey   string        `yaml:"api_key" env:"SHELTER_API_KEY"`
	PageSize int           `yaml:"page_size" env:"SHELTER_PAGE_SIZE" env-default:"100"`
	PageNo   int           `yaml:"page_no" env:"SHELTER_PAGE_NO" env-default:"1"`
	Timeout  time.Duration `yaml:"timeout" env:"SHELTER_TIMEOUT" env-default:"10s"`
	RPS      float64       `yaml:"rps" env:"SHELTER_RPS" env-default:"5"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"SHELTER_CACHE_TTL" env-default:"10m"`
}

type BaaS struct {
	URL         string        `yaml:"url" env:"BAAS_URL"`
	AnonKey     string        `yaml:"anon_key" env:"BAAS_ANON_KEY"`
	ServiceKey  string        `yaml:"service_key" env:"BAAS_SERVICE_KEY"`
	Bucket      string        `yaml:"bucket" env:"BAAS_BUCKET" env-default:"image"`
	RedirectURL string        `yaml:"redirect_url" env:"BAAS_REDIRECT_URL"`
	Timeout     time.Duration `yaml:"timeout" env:"BAAS_TIMEOUT" env-default:"10s"`
}

func (b BaaS) Enabled() bool {
	return strings.TrimSpace(b.URL) != "" && strings.TrimSpace(b.AnonKey) != ""
}

type DB struct {
	DSN string `yaml:"dsn" env:"DB_DSN"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
}

type MinIO struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"image"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
	PublicURL string `yaml:"public_url" env:"MINIO_PUBLIC_URL"`
}

func (m MinIO) Enabled() bool {
	return strings.TrimSpace(m.Endpoint) != ""
}

var ErrInvalidConfig = errors.New("invalid config")

// Load lee CONFIG_FILE si está definido; el entorno siempre pisa al archivo.
func Load() (Config, error) {
	var cfg Config

	var err error
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTP.Port) == "" {
		errs = append(errs, errors.New("PORT is empty"))
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is unknown", c.Log.Level))
	}
	if c.Shelter.PageSize <= 0 {
		errs = append(errs, errors.New("SHELTER_PAGE_SIZE must be > 0"))
	}
	if c.Shelter.PageNo <= 0 {
		errs = append(errs, errors.New("SHELTER_PAGE_NO must be > 0"))
	}
	if c.Shelter.RPS < 0 {
		errs = append(errs, errors.New("SHELTER_RPS must be >= 0"))
	}
	if (c.BaaS.URL == "") != (c.BaaS.AnonKey == "") {
		errs = append(errs, errors.New("BAAS_URL and BAAS_ANON_KEY go together"))
	}
	if c.MinIO.Enabled() && (c.MinIO.AccessKey == "" || c.MinIO.SecretKey == "") {
		errs = append(errs, errors.New("MINIO_ENDPOINT needs MINIO_ACCESS_KEY and MINIO_SECRET_KEY"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Usage describe las variables de entorno (para -h).
func Usage() string {
	var cfg Config
	desc, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return desc
}
