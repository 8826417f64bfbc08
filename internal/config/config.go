package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"` // mysql or sqlite
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName     string `env:"DB_NAME"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"crm.db"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"8h"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	LinkCacheTTL  time.Duration `env:"LINK_CACHE_TTL" envDefault:"30m"`

	LowStockThreshold     int64         `env:"LOW_STOCK_THRESHOLD" envDefault:"10"`
	ComplaintWarningHours float64       `env:"COMPLAINT_WARNING_HOURS" envDefault:"24"`
	NotifyInterval        time.Duration `env:"NOTIFY_INTERVAL" envDefault:"0s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ReportBucket       string        `env:"REPORT_BUCKET"`
	ReportPrefix       string        `env:"REPORT_PREFIX" envDefault:"reports"`
	ExportTimeout      time.Duration `env:"EXPORT_TIMEOUT" envDefault:"5m"`
	GCPCredentialsFile string        `env:"GCP_CREDENTIALS_FILE"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
