package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda "dev".
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	JWT struct {
		Issuer     string `yaml:"issuer"`
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
		// SigningKey es la seed ed25519 en base64 (32 bytes).
		// Si está vacía se toma de JWT_SIGNING_KEY.
		SigningKey string `yaml:"signing_key"`
	} `yaml:"jwt"`

	Security struct {
		// SecretBoxMasterKey base64(32 bytes). Si está vacía se toma de
		// SECRETBOX_MASTER_KEY. Nunca se loguea.
		SecretBoxMasterKey string `yaml:"secretbox_master_key"`
	} `yaml:"security"`

	Square struct {
		ApplicationID string `yaml:"application_id"`
		// ApplicationSecret se puede setear por SQUARE_APPLICATION_SECRET.
		ApplicationSecret string `yaml:"application_secret"`
		Environment       string `yaml:"environment"` // sandbox | production
		RedirectURI       string `yaml:"redirect_uri"`
		// DefaultTenantID: fallback de desarrollo para el context resolver.
		// En producción multi-tenant debe quedar vacío.
		DefaultTenantID string `yaml:"default_tenant_id"`
	} `yaml:"square"`

	Trial struct {
		Days     int    `yaml:"days"`
		PlanCode string `yaml:"plan_code"`
	} `yaml:"trial"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"`                  // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"` // sólo dev
	} `yaml:"smtp"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load lee el YAML (si path no está vacío), aplica defaults y pisa con
// variables de entorno. Con path vacío arma la config sólo desde el entorno.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "frontdesk"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "15m"
	}
	if c.JWT.RefreshTTL == "" {
		c.JWT.RefreshTTL = "720h" // 30d
	}
	if c.Square.Environment == "" {
		c.Square.Environment = "sandbox"
	}
	if c.Trial.Days == 0 {
		c.Trial.Days = 14
	}
	if c.Trial.PlanCode == "" {
		c.Trial.PlanCode = "base"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	c.applyEnvOverrides()
	return &c, nil
}

// AccessTTL parsea jwt.access_ttl (ya validada en Validate).
func (c *Config) AccessTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTTL)
	return d
}

// RefreshTTL parsea jwt.refresh_ttl.
func (c *Config) RefreshTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.RefreshTTL)
	return d
}

// Validate chequea precondiciones de arranque. Una clave faltante acá es un
// error de deployment, no algo de lo que el runtime deba recuperarse.
func (c *Config) Validate() error {
	if c.Storage.DSN == "" {
		return fmt.Errorf("config: storage.dsn is required")
	}
	if c.Security.SecretBoxMasterKey == "" {
		return fmt.Errorf("config: security.secretbox_master_key (o SECRETBOX_MASTER_KEY) is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessTTL); err != nil {
		return fmt.Errorf("config: jwt.access_ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshTTL); err != nil {
		return fmt.Errorf("config: jwt.refresh_ttl: %w", err)
	}
	switch c.Square.Environment {
	case "sandbox", "production":
	default:
		return fmt.Errorf("config: square.environment must be sandbox|production, got %q", c.Square.Environment)
	}
	return nil
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("DATABASE_URL"); ok && c.Storage.DSN == "" {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("CACHE_REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("CACHE_REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("JWT_SIGNING_KEY"); ok {
		c.JWT.SigningKey = v
	}
	if v, ok := getEnvStr("SECRETBOX_MASTER_KEY"); ok {
		c.Security.SecretBoxMasterKey = v
	}
	if v, ok := getEnvStr("SQUARE_APPLICATION_ID"); ok {
		c.Square.ApplicationID = v
	}
	if v, ok := getEnvStr("SQUARE_APPLICATION_SECRET"); ok {
		c.Square.ApplicationSecret = v
	}
	if v, ok := getEnvStr("SQUARE_ENVIRONMENT"); ok {
		c.Square.Environment = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SQUARE_REDIRECT_URI"); ok {
		c.Square.RedirectURI = v
	}
	if v, ok := getEnvStr("SQUARE_DEFAULT_TENANT_ID"); ok {
		c.Square.DefaultTenantID = v
	}
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_FROM"); ok {
		c.SMTP.From = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
}
