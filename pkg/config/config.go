package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	GCP           GCPConfig
	Storage       StorageConfig
	Email         EmailConfig
	Worker        WorkerConfig
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
	Env          string `envconfig:"JOYALURE_APP_ENV" required:"true"`
	Port         string `envconfig:"JOYALURE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"JOYALURE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JOYALURE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"JOYALURE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"JOYALURE_DB_DSN"`
	Driver string `envconfig:"JOYALURE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"JOYALURE_DB_HOST"`
	LegacyPort     int    `envconfig:"JOYALURE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"JOYALURE_DB_USER"`
	LegacyPassword string `envconfig:"JOYALURE_DB_PASSWORD"`
	LegacyName     string `envconfig:"JOYALURE_DB_NAME"`
	LegacySSLMode  string `envconfig:"JOYALURE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"JOYALURE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JOYALURE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JOYALURE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JOYALURE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"JOYALURE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"JOYALURE_REDIS_ADDR"`
	Password     string        `envconfig:"JOYALURE_REDIS_PASSWORD"`
	DB           int           `envconfig:"JOYALURE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JOYALURE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JOYALURE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JOYALURE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JOYALURE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JOYALURE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"JOYALURE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"JOYALURE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"JOYALURE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"JOYALURE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"JOYALURE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"JOYALURE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"JOYALURE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"JOYALURE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"JOYALURE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"JOYALURE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"JOYALURE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"JOYALURE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"JOYALURE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"JOYALURE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"JOYALURE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"JOYALURE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"JOYALURE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"JOYALURE_GOOGLE_APPLICATION_CREDENTIALS"`
}

// StorageConfig names the buckets that accept direct uploads. Each bucket
// maps to one upload surface of the admin back office.
type StorageConfig struct {
	ProductImagesBucket string `envconfig:"JOYALURE_STORAGE_PRODUCT_IMAGES_BUCKET" default:"product-images"`
	CategoriesBucket    string `envconfig:"JOYALURE_STORAGE_CATEGORIES_BUCKET" default:"categories"`
	BlogImagesBucket    string `envconfig:"JOYALURE_STORAGE_BLOG_IMAGES_BUCKET" default:"blog-images"`
	AvatarsBucket       string `envconfig:"JOYALURE_STORAGE_AVATARS_BUCKET" default:"avatars"`
	MaxUploadMB         int    `envconfig:"JOYALURE_STORAGE_MAX_UPLOAD_MB" default:"10"`
}

type EmailConfig struct {
	APIKey      string        `envconfig:"JOYALURE_EMAIL_API_KEY"`
	BaseURL     string        `envconfig:"JOYALURE_EMAIL_BASE_URL" default:"https://api.resend.com"`
	DefaultFrom string        `envconfig:"JOYALURE_EMAIL_FROM" default:"Joyalure <hello@joyalure.com>"`
	Timeout     time.Duration `envconfig:"JOYALURE_EMAIL_TIMEOUT" default:"15s"`
}

type WorkerConfig struct {
	Interval               time.Duration `envconfig:"JOYALURE_WORKER_INTERVAL" default:"5m"`
	PendingUploadRetention int           `envconfig:"JOYALURE_WORKER_PENDING_UPLOAD_RETENTION_DAYS" default:"7"`
	AutoMigrate            bool          `envconfig:"JOYALURE_AUTO_MIGRATE" default:"false"`
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
