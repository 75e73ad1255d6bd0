package config

const (
	EnvPrefix = "THETROIS"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
	StorageDriverSQLite = "sqlite"

	EnvAppEnv          = "THETROIS_APP_ENV"
	EnvPort            = "THETROIS_APP_PORT"
	EnvUpstreamBaseURL = "THETROIS_UPSTREAM_BASE_URL"
	EnvRedisURL        = "THETROIS_REDIS_URL"
	EnvStorageDriver   = "THETROIS_STORAGE_DRIVER"
)
