package config

// EnvPrefix scopes every environment variable this service reads.
const EnvPrefix = "JOYALURE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv    = "JOYALURE_APP_ENV"
	EnvPort      = "JOYALURE_APP_PORT"
	EnvDBDSN     = "JOYALURE_DB_DSN"
	EnvDBHost    = "JOYALURE_DB_HOST"
	EnvDBUser    = "JOYALURE_DB_USER"
	EnvDBName    = "JOYALURE_DB_NAME"
	EnvRedisURL  = "JOYALURE_REDIS_URL"
	EnvJWTSecret = "JOYALURE_JWT_SECRET"
	EnvJWTIssuer = "JOYALURE_JWT_ISSUER"
	EnvJWTExp    = "JOYALURE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
