package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/silvertalent/backend/internal/media"
)

type Config struct {
	Addr              string        `yaml:"addr"`
	JWTSecret         string        `yaml:"jwt_secret"`
	APITimeout        time.Duration `yaml:"timeout"`
	DatabasePath      string        `yaml:"database_path"`
	TokenDuration     time.Duration `yaml:"token_duration"`
	AdminEmail        string        `yaml:"admin_email"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
	Storage           media.Config  `yaml:"storage"`
	Mail              MailConfig    `yaml:"mail"`
	Alerts            AlertsConfig  `yaml:"alerts"`
}

// MailConfig holds SMTP settings. AdminEmail is where application and
// contact-form notifications land.
type MailConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	AdminEmail string `yaml:"admin_email"`
}

// Configured reports whether enough settings are present to send mail. When
// false the server runs with email disabled.
func (m MailConfig) Configured() bool {
	return m.Host != "" && m.Port != 0 && m.User != "" && m.Password != "" && m.AdminEmail != ""
}

// AlertsConfig controls the job-alert digest. Schedule is a cron expression.
type AlertsConfig struct {
	Schedule string `yaml:"schedule"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 8 * time.Hour

	cfg := &Config{
		Addr:              getEnv("ST_ADDR", ":8080"),
		JWTSecret:         getEnv("ST_JWT_SECRET", "supersecretkey"),
		APITimeout:        apiTimeout,
		DatabasePath:      getEnv("ST_DATABASE_PATH", "silvertalent.db"),
		TokenDuration:     tokenDuration,
		AdminEmail:        getEnv("ST_ADMIN_EMAIL", "admin@silvertalent.com"),
		AdminPasswordHash: getEnv("ST_ADMIN_PASSWORD_HASH", ""),
		Storage: media.Config{
			Endpoint:  getEnv("ST_STORAGE_ENDPOINT", ""),
			AccessKey: getEnv("ST_STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("ST_STORAGE_SECRET_KEY", ""),
			Region:    getEnv("ST_STORAGE_REGION", "us-east-1"),
			Bucket:    getEnv("ST_STORAGE_BUCKET", "silver-talent"),
		},
		Mail: MailConfig{
			Host:       getEnv("ST_EMAIL_HOST", ""),
			Port:       getEnvInt("ST_EMAIL_PORT", 587),
			User:       getEnv("ST_EMAIL_USER", ""),
			Password:   getEnv("ST_EMAIL_PASSWORD", ""),
			AdminEmail: getEnv("ST_OWNER_EMAIL", ""),
		},
		Alerts: AlertsConfig{
			Schedule: getEnv("ST_ALERTS_SCHEDULE", "0 8 * * *"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return def
}
