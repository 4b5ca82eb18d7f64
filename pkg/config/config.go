package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "STORE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "STORE_DB_DSN"
	EnvDBHost = "STORE_DB_HOST"
	EnvDBUser = "STORE_DB_USER"
	EnvDBName = "STORE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Stripe       StripeConfig
	Packeta      PacketaConfig
	Resend       ResendConfig
	Labels       LabelsConfig
	Auth         AuthConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STORE_APP_ENV" required:"true"`
	Port         string `envconfig:"STORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STORE_DB_DSN"`
	Driver string `envconfig:"STORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STORE_DB_HOST"`
	LegacyPort     int    `envconfig:"STORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STORE_DB_USER"`
	LegacyPassword string `envconfig:"STORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"STORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"STORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STORE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STORE_REDIS_ADDR"`
	Password     string        `envconfig:"STORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"STORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type StripeConfig struct {
	APIKey        string        `envconfig:"STORE_STRIPE_API_KEY"`
	Secret        string        `envconfig:"STORE_STRIPE_WEBHOOK_SECRET"`
	Env           string        `envconfig:"STORE_STRIPE_ENV" default:"test"`
	EventGuardTTL time.Duration `envconfig:"STORE_STRIPE_EVENT_GUARD_TTL" default:"720h"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type PacketaConfig struct {
	BaseURL     string        `envconfig:"STORE_PACKETA_BASE_URL" default:"https://www.zasilkovna.cz/api/rest"`
	APIPassword string        `envconfig:"STORE_PACKETA_API_PASSWORD"`
	SenderLabel string        `envconfig:"STORE_PACKETA_SENDER_LABEL"`
	Timeout     time.Duration `envconfig:"STORE_PACKETA_TIMEOUT" default:"15s"`
}

type ResendConfig struct {
	APIKey    string `envconfig:"STORE_RESEND_API_KEY"`
	FromEmail string `envconfig:"STORE_RESEND_FROM_EMAIL" default:"admin@yeezuz2020.store"`
}

type LabelsConfig struct {
	Format         string `envconfig:"STORE_LABEL_FORMAT" default:"A6 on A4"`
	DefaultWeightG int    `envconfig:"STORE_SHIPMENT_DEFAULT_WEIGHT_G" default:"1000"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"STORE_AUTH_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"STORE_AUTH_ISSUER"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STORE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
