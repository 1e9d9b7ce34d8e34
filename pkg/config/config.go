package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SMARTSUPPLY"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "SMARTSUPPLY_APP_ENV"
	EnvDBDSN  = "SMARTSUPPLY_DB_DSN"
	EnvDBHost = "SMARTSUPPLY_DB_HOST"
	EnvDBUser = "SMARTSUPPLY_DB_USER"
	EnvDBName = "SMARTSUPPLY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	CORS         CORSConfig
	Idempotency  IdempotencyConfig
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
	Env          string `envconfig:"SMARTSUPPLY_APP_ENV" required:"true"`
	Port         string `envconfig:"SMARTSUPPLY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SMARTSUPPLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SMARTSUPPLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SMARTSUPPLY_DB_DSN"`
	Driver string `envconfig:"SMARTSUPPLY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SMARTSUPPLY_DB_HOST"`
	LegacyPort     int    `envconfig:"SMARTSUPPLY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SMARTSUPPLY_DB_USER"`
	LegacyPassword string `envconfig:"SMARTSUPPLY_DB_PASSWORD"`
	LegacyName     string `envconfig:"SMARTSUPPLY_DB_NAME"`
	LegacySSLMode  string `envconfig:"SMARTSUPPLY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SMARTSUPPLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SMARTSUPPLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SMARTSUPPLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SMARTSUPPLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SMARTSUPPLY_REDIS_URL"`
	Address      string        `envconfig:"SMARTSUPPLY_REDIS_ADDR"`
	Password     string        `envconfig:"SMARTSUPPLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"SMARTSUPPLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SMARTSUPPLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SMARTSUPPLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SMARTSUPPLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SMARTSUPPLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SMARTSUPPLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SMARTSUPPLY_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"SMARTSUPPLY_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SMARTSUPPLY_AUTO_MIGRATE" default:"false"`
	UseSQLite   bool `envconfig:"SMARTSUPPLY_USE_SQLITE" default:"false"`
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
