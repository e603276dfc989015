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
	FeatureFlags FeatureFlagsConfig
	Drafts       DraftsConfig
	Preview      PreviewConfig
	Metrics      MetricsConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"JEWELCRAFT_APP_ENV" required:"true"`
	Port         string `envconfig:"JEWELCRAFT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"JEWELCRAFT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JEWELCRAFT_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"JEWELCRAFT_LOG_FORMAT"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"JEWELCRAFT_DB_DSN"`
	Driver string `envconfig:"JEWELCRAFT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"JEWELCRAFT_DB_HOST"`
	LegacyPort     int    `envconfig:"JEWELCRAFT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"JEWELCRAFT_DB_USER"`
	LegacyPassword string `envconfig:"JEWELCRAFT_DB_PASSWORD"`
	LegacyName     string `envconfig:"JEWELCRAFT_DB_NAME"`
	LegacySSLMode  string `envconfig:"JEWELCRAFT_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"JEWELCRAFT_SQLITE_PATH" default:"file::memory:?cache=shared"`

	MaxOpenConns    int           `envconfig:"JEWELCRAFT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JEWELCRAFT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JEWELCRAFT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JEWELCRAFT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"JEWELCRAFT_REDIS_URL"`
	Address      string        `envconfig:"JEWELCRAFT_REDIS_ADDR"`
	Password     string        `envconfig:"JEWELCRAFT_REDIS_PASSWORD"`
	DB           int           `envconfig:"JEWELCRAFT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JEWELCRAFT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JEWELCRAFT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JEWELCRAFT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JEWELCRAFT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JEWELCRAFT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"JEWELCRAFT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"JEWELCRAFT_AUTO_MIGRATE" default:"false"`
}

type DraftsConfig struct {
	TTL time.Duration `envconfig:"JEWELCRAFT_DRAFT_TTL" default:"72h"`
}

type PreviewConfig struct {
	CacheTTL    time.Duration `envconfig:"JEWELCRAFT_PREVIEW_CACHE_TTL" default:"2m"`
	MaxProducts int           `envconfig:"JEWELCRAFT_PREVIEW_MAX_PRODUCTS" default:"500"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"JEWELCRAFT_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"JEWELCRAFT_METRICS_PATH" default:"/metrics"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"JEWELCRAFT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
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
