package config

const (
	EnvPrefix = "JEWELCRAFT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvAppEnv     = "JEWELCRAFT_APP_ENV"
	EnvPort       = "JEWELCRAFT_APP_PORT"
	EnvDBDSN      = "JEWELCRAFT_DB_DSN"
	EnvDBHost     = "JEWELCRAFT_DB_HOST"
	EnvDBPort     = "JEWELCRAFT_DB_PORT"
	EnvDBUser     = "JEWELCRAFT_DB_USER"
	EnvDBPassword = "JEWELCRAFT_DB_PASSWORD"
	EnvDBName     = "JEWELCRAFT_DB_NAME"
	EnvUseSQLite  = "JEWELCRAFT_USE_SQLITE"
	EnvRedisURL   = "JEWELCRAFT_REDIS_URL"
	EnvDraftTTL   = "JEWELCRAFT_DRAFT_TTL"
	EnvPreviewTTL = "JEWELCRAFT_PREVIEW_CACHE_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
