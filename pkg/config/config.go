package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
	Shop         ShopConfig
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
	Env          string `envconfig:"POTIONSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"POTIONSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"POTIONSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POTIONSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"POTIONSHOP_DB_DSN"`
	Driver string `envconfig:"POTIONSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POTIONSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"POTIONSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POTIONSHOP_DB_USER"`
	LegacyPassword string `envconfig:"POTIONSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"POTIONSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"POTIONSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POTIONSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POTIONSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POTIONSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POTIONSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite engine.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"POTIONSHOP_REDIS_URL"`
	Address      string        `envconfig:"POTIONSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"POTIONSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"POTIONSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POTIONSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POTIONSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POTIONSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POTIONSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POTIONSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type AuthConfig struct {
	APIKey string `envconfig:"POTIONSHOP_API_KEY"`
	Header string `envconfig:"POTIONSHOP_API_KEY_HEADER" default:"access_token"`
}

type RateLimitConfig struct {
	CartWindow time.Duration `envconfig:"POTIONSHOP_RATE_LIMIT_CART_WINDOW" default:"1m"`
	CartLimit  int           `envconfig:"POTIONSHOP_RATE_LIMIT_CART_LIMIT" default:"120"`
}

type ShopConfig struct {
	PotionsPerCapacityUnit int `envconfig:"POTIONSHOP_POTIONS_PER_CAPACITY_UNIT" default:"50"`
	MLPerCapacityUnit      int `envconfig:"POTIONSHOP_ML_PER_CAPACITY_UNIT" default:"10000"`
	StorefrontLimit        int `envconfig:"POTIONSHOP_STOREFRONT_LIMIT" default:"6"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"POTIONSHOP_AUTO_MIGRATE" default:"false"`
	SeedCatalog bool `envconfig:"POTIONSHOP_SEED_CATALOG" default:"true"`
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
