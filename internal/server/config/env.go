package config

import (
	"strings"

	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"http_addr":        "HTTP_ADDR",
	"grpc_health_addr": "GRPC_HEALTH_ADDR",
	"database_dsn":     "DATABASE_URL",
	"database_name":    "DB_NAME",
	"secret_key":       "JWT_SECRET",
	"cors_origins":     "CORS_ORIGINS",
	"bcrypt_cost":      "BCRYPT_COST",
	"log_level":        "LOG_LEVEL",
	"shutdown_timeout": "SHUTDOWN_TIMEOUT",
	"s3_root_user":     "S3_ROOT_USER",
	"s3_root_password": "S3_ROOT_PASSWORD",
	"s3_bucket":        "S3_BUCKET",
	"s3_region":        "S3_REGION",
	"s3_base_endpoint": "S3_BASE_ENDPOINT",
	"export_url_ttl":   "EXPORT_URL_TTL",
}

// parseEnv overlays values from environment variables that are set and
// non-empty. CORS_ORIGINS is a comma-separated list.
func parseEnv(config *Config) {
	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			panic(err)
		}
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	str("http_addr", &config.HTTPAddr)
	str("grpc_health_addr", &config.GRPCHealthAddr)
	str("database_dsn", &config.DatabaseDSN)
	str("database_name", &config.DatabaseName)
	str("secret_key", &config.SecretKey)
	str("log_level", &config.LogLevel)
	str("s3_root_user", &config.S3RootUser)
	str("s3_root_password", &config.S3RootPassword)
	str("s3_bucket", &config.S3Bucket)
	str("s3_region", &config.S3Region)
	str("s3_base_endpoint", &config.S3BaseEndpoint)

	if v.IsSet("cors_origins") {
		config.CORSOrigins = splitList(v.GetString("cors_origins"))
	}
	if v.IsSet("bcrypt_cost") {
		config.BcryptCost = v.GetInt("bcrypt_cost")
	}
	if v.IsSet("shutdown_timeout") {
		config.ShutdownTimeout = v.GetDuration("shutdown_timeout")
	}
	if v.IsSet("export_url_ttl") {
		config.ExportURLTTL = v.GetDuration("export_url_ttl")
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
