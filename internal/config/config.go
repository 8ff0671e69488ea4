package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel    string `toml:"log_level"`
	LogsPath    string `toml:"logs_path"`
	LogToStdout bool   `toml:"log_to_stdout"`

	SentryEnabled bool `toml:"sentry_enabled"`

	// prometheus metrics server
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	QuotesCsvPath string `toml:"quotes_csv_path"`

	// notification delivery
	// "push" routes notifications to the remote push gateway,
	// "local" arms in-process timers and shows desktop notifications
	NotificationsDeliveryMode string `toml:"notifications_delivery_mode"`
	PushGatewayBaseURL        string `toml:"push_gateway_base_url"`
	PushGatewayTokenURL       string `toml:"push_gateway_token_url"`
	PushGatewayClientID       string `toml:"push_gateway_client_id"`

	// delivery log backup
	BackupEnabled            bool   `toml:"backup_enabled"`
	BackupCronSchedule       string `toml:"backup_cron_schedule"`
	BackupSink               string `toml:"backup_sink"` // "drive" or "s3"
	BackupDriveCredsPath     string `toml:"backup_drive_creds_path"`
	BackupS3Bucket           string `toml:"backup_s3_bucket"`
	BackupS3Region           string `toml:"backup_s3_region"`
	BackupUnixSocketAddrDir  string `toml:"backup_unix_socket_addr_dir"`
	BackupUnixSocketFileName string `toml:"backup_unix_socket_file_name"`
}

type Toml struct {
	Development *Config
	Production  *Config
	Dockerdev   *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	case "ddev", "dockerdev":
		return t.Dockerdev, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var confToml Toml
	if _, err := toml.DecodeFile(path, &confToml); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := confToml.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env %s missing", env)
	}

	cfg.Environment = env
	return cfg, nil
}
