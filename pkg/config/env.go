package config

// EnvPrefix is handed to envconfig; every field carries an explicit full key.
const EnvPrefix = "POTIONSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "POTIONSHOP_APP_ENV"
	EnvPort     = "POTIONSHOP_APP_PORT"
	EnvLogLevel = "POTIONSHOP_LOG_LEVEL"

	EnvDBDSN    = "POTIONSHOP_DB_DSN"
	EnvDBDriver = "POTIONSHOP_DB_DRIVER"
	EnvDBHost   = "POTIONSHOP_DB_HOST"
	EnvDBPort   = "POTIONSHOP_DB_PORT"
	EnvDBUser   = "POTIONSHOP_DB_USER"
	EnvDBPass   = "POTIONSHOP_DB_PASSWORD"
	EnvDBName   = "POTIONSHOP_DB_NAME"

	EnvRedisURL = "POTIONSHOP_REDIS_URL"
	EnvAPIKey   = "POTIONSHOP_API_KEY"

	EnvCartRateLimitWindow = "POTIONSHOP_RATE_LIMIT_CART_WINDOW"
	EnvCartRateLimit       = "POTIONSHOP_RATE_LIMIT_CART_LIMIT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
