package config

import "github.com/aws/aws-sdk-go-v2/service/s3"

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Client   *s3.Client
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

type JWTConfig struct {
	SecretKey string `yaml:"secret_key"`
}

// WebhookConfig : куда доставляются оповещения об истечении сроков
type WebhookConfig struct {
	URL string `yaml:"url"`
}

// ScannerConfig : расписание сканера истечения сроков.
// Interval — период запуска, AlertWindowDays — окно оповещения,
// NotifierTimeout — ограничение на один вызов нотификатора.
type ScannerConfig struct {
	Interval        string `yaml:"interval"`
	AlertWindowDays int    `yaml:"alert_window_days"`
	NotifierTimeout string `yaml:"notifier_timeout"`
}

type TTL struct {
	S3AndRedis int `yaml:"s3_and_redis"`
}
