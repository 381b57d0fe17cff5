package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Env            string  `mapstructure:"ENV"`
	HTTPPort       string  `mapstructure:"HTTP_PORT"`
	GRPCPort       string  `mapstructure:"GRPC_PORT"`
	DBHost         string  `mapstructure:"DB_HOST"`
	DBPort         string  `mapstructure:"DB_PORT"`
	DBUser         string  `mapstructure:"DB_USER"`
	DBPassword     string  `mapstructure:"DB_PASSWORD"`
	DBName         string  `mapstructure:"DB_NAME"`
	RedisAddr      string  `mapstructure:"REDIS_ADDR"`
	AccessSecret   string  `mapstructure:"ACCESS_SECRET"`
	RefreshSecret  string  `mapstructure:"REFRESH_SECRET"`
	SendGridAPIKey string  `mapstructure:"SENDGRID_API_KEY"`
	SMTPEmail      string  `mapstructure:"SMTP_EMAIL"`
	FrontendURL    string  `mapstructure:"FRONTEND_URL"`
	AllowedOrigins string  `mapstructure:"ALLOWED_ORIGINS"`
	PassThreshold  int     `mapstructure:"PASS_THRESHOLD"`
	CertMinScore   float64 `mapstructure:"CERT_MIN_SCORE"`
	RollbarToken   string  `mapstructure:"ROLLBAR_TOKEN"`
}

var keys = []string{
	"ENV", "HTTP_PORT", "GRPC_PORT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"REDIS_ADDR", "ACCESS_SECRET", "REFRESH_SECRET",
	"SENDGRID_API_KEY", "SMTP_EMAIL", "FRONTEND_URL", "ALLOWED_ORIGINS",
	"PASS_THRESHOLD", "CERT_MIN_SCORE", "ROLLBAR_TOKEN",
}

// LoadConfig reads app.env from path, then the environment. A .env file next
// to it is loaded first for local secrets; real env vars always win.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !os.IsNotExist(err) {
		return config, errors.Wrap(err, "loading .env")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("ENV", "development")
	v.SetDefault("HTTP_PORT", ":8080")
	v.SetDefault("GRPC_PORT", ":50051")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("PASS_THRESHOLD", 80)
	v.SetDefault("CERT_MIN_SCORE", 70)

	v.AutomaticEnv()
	for _, key := range keys {
		if err = v.BindEnv(key); err != nil {
			return config, errors.Wrapf(err, "binding %s", key)
		}
	}

	// the file is optional, env alone is enough
	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config, errors.Wrap(err, "reading app.env")
		}
	}

	err = v.Unmarshal(&config)
	return config, err
}

func (c Config) DSN() string {
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword +
		" dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable"
}

func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}
