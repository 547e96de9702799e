package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/rippleid/internal/providers/ripple"
	"github.com/dropDatabas3/rippleid/internal/validation"
)

// ErrInvalidConfig marca una configuración inválida.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	App struct {
		// dev | staging | prod
		Env  string `yaml:"env"`
		Name string `yaml:"name"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr string `yaml:"addr"`
		// BaseURL público; se usa para derivar callback_url si no está.
		BaseURL         string        `yaml:"base_url"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		// TrustProxyHeaders: la IP del cliente se toma de X-Forwarded-For /
		// X-Real-IP. Activar solo detrás de un proxy que los reescriba.
		TrustProxyHeaders bool `yaml:"trust_proxy_headers"`
	} `yaml:"server"`

	Cache struct {
		Kind   string `yaml:"kind"` // memory | redis
		Prefix string `yaml:"prefix"`
		Redis  struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	// State firma el parámetro state del flujo social (HS256).
	State struct {
		SigningKey string        `yaml:"signing_key"`
		Issuer     string        `yaml:"issuer"`
		TTL        time.Duration `yaml:"ttl"`
	} `yaml:"state"`

	// RateLimit limita por IP las rutas /auth/*.
	RateLimit struct {
		Enabled bool          `yaml:"enabled"`
		Max     int           `yaml:"max"`
		Window  time.Duration `yaml:"window"`
	} `yaml:"rate_limit"`

	// ───────── Social Login Providers ─────────
	Providers struct {
		Ripple RippleConfig `yaml:"ripple"`
	} `yaml:"providers"`
}

// RippleConfig es el bloque providers.ripple del YAML.
// Los endpoints vacíos toman los defaults de Ripple ID.
type RippleConfig struct {
	Enabled          bool              `yaml:"enabled"`
	ClientID         string            `yaml:"client_id"`
	ClientSecret     string            `yaml:"client_secret"`
	CallbackURL      string            `yaml:"callback_url"` // si vacío => <server.base_url>/auth/ripple/callback
	Scope            []string          `yaml:"scope"`        // user, funds o vacío
	AuthorizationURL string            `yaml:"authorization_url"`
	TokenURL         string            `yaml:"token_url"`
	UserProfileURL   string            `yaml:"user_profile_url"`
	ScopeSeparator   string            `yaml:"scope_separator"`
	UserAgent        string            `yaml:"user_agent"`
	CustomHeaders    map[string]string `yaml:"custom_headers"`
}

// Strategy convierte el bloque YAML a la configuración de la estrategia.
func (r RippleConfig) Strategy() ripple.Config {
	return ripple.Config{
		ClientID:         r.ClientID,
		ClientSecret:     r.ClientSecret,
		CallbackURL:      r.CallbackURL,
		Scope:            r.Scope,
		AuthorizationURL: r.AuthorizationURL,
		TokenURL:         r.TokenURL,
		UserProfileURL:   r.UserProfileURL,
		ScopeSeparator:   r.ScopeSeparator,
		UserAgent:        r.UserAgent,
		CustomHeaders:    r.CustomHeaders,
	}
}

// LoadDotEnv carga los .env indicados si existen. Los que faltan se ignoran;
// las variables ya presentes en el entorno no se pisan.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// Load lee el YAML en path (opcional: "" => solo defaults + env), aplica
// defaults y overrides por env. No valida: ver Validate.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "rippleid"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "rippleid"
	}
	if c.RateLimit.Max == 0 {
		c.RateLimit.Max = 30
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.State.TTL == 0 {
		c.State.TTL = 10 * time.Minute
	}
	if c.State.Issuer == "" {
		c.State.Issuer = c.App.Name
	}

	// Si callback_url vacío pero tenemos base_url ⇒ autogenerar
	rp := &c.Providers.Ripple
	if strings.TrimSpace(rp.CallbackURL) == "" && strings.TrimSpace(c.Server.BaseURL) != "" {
		rp.CallbackURL = strings.TrimRight(c.Server.BaseURL, "/") + "/auth/" + ripple.ProviderName + "/callback"
	}
}

func (c *Config) applyEnvOverrides() {
	setStr(&c.App.Env, "APP_ENV")
	setStr(&c.Log.Level, "LOG_LEVEL")
	setStr(&c.Server.Addr, "SERVER_ADDR")
	setStr(&c.Server.BaseURL, "SERVER_BASE_URL")
	setStr(&c.Cache.Kind, "CACHE_KIND")
	setStr(&c.Cache.Redis.Addr, "REDIS_ADDR")
	setStr(&c.Cache.Redis.Password, "REDIS_PASSWORD")
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	setStr(&c.State.SigningKey, "STATE_SIGNING_KEY")
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("SERVER_TRUST_PROXY_HEADERS"))); err == nil {
		c.Server.TrustProxyHeaders = v
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED"))); err == nil {
		c.RateLimit.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LIMIT_MAX"); ok {
		c.RateLimit.Max = v
	}

	rp := &c.Providers.Ripple
	setStr(&rp.ClientID, "RIPPLE_CLIENT_ID")
	setStr(&rp.ClientSecret, "RIPPLE_CLIENT_SECRET")
	setStr(&rp.CallbackURL, "RIPPLE_CALLBACK_URL")
	setStr(&rp.UserAgent, "RIPPLE_USER_AGENT")
	if v := strings.TrimSpace(os.Getenv("RIPPLE_SCOPE")); v != "" {
		rp.Scope = splitComma(v)
	}
	// Presencia de client_id por env habilita el proveedor.
	if os.Getenv("RIPPLE_CLIENT_ID") != "" {
		rp.Enabled = true
	}
}

// Validate revisa lo que el servidor HTTP necesita para arrancar.
// Las credenciales del proveedor no se validan: fallan en el token exchange.
func (c *Config) Validate() error {
	if len(c.State.SigningKey) < 32 {
		return fmt.Errorf("%w: state.signing_key must be at least 32 bytes (STATE_SIGNING_KEY)", ErrInvalidConfig)
	}
	if c.State.TTL < 0 {
		return fmt.Errorf("%w: state.ttl must be positive", ErrInvalidConfig)
	}
	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		return fmt.Errorf("%w: cache.kind %q (memory|redis)", ErrInvalidConfig, c.Cache.Kind)
	}
	if c.RateLimit.Enabled && c.RateLimit.Max < 1 {
		return fmt.Errorf("%w: rate_limit.max must be at least 1", ErrInvalidConfig)
	}
	sep := c.Providers.Ripple.ScopeSeparator
	if sep == "" {
		sep = ripple.DefaultScopeSeparator
	}
	if err := validation.CheckScopes(c.Providers.Ripple.Scope, sep); err != nil {
		return fmt.Errorf("%w: providers.ripple.scope: %v", ErrInvalidConfig, err)
	}
	if !c.Providers.Ripple.Enabled {
		return fmt.Errorf("%w: no provider enabled (providers.ripple.enabled or RIPPLE_CLIENT_ID)", ErrInvalidConfig)
	}
	return nil
}

func setStr(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func getEnvInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
