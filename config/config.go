package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	UploadsDir     string   `yaml:"uploadsDir"`
}

type DatabaseConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
}

type JWTConfig struct {
	PrivateKeyPath string        `yaml:"privateKeyPath"`
	PublicKeyPath  string        `yaml:"publicKeyPath"`
	TokenTTL       time.Duration `yaml:"tokenTTL"`
}

type SessionConfig struct {
	CookieName string        `yaml:"cookieName"`
	TTL        time.Duration `yaml:"ttl"`
	Secure     bool          `yaml:"secure"`
}

type LogConfig struct {
	Level     string `yaml:"level"`
	AddSource bool   `yaml:"addSource"`
}

type Config struct {
	Env      string         `yaml:"env"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Session  SessionConfig  `yaml:"session"`
	Log      LogConfig      `yaml:"log"`
}

func defaults() Config {
	return Config{
		Env: "development",
		Server: ServerConfig{
			Addr:           ":3000",
			AllowedOrigins: []string{"*"},
			UploadsDir:     "./uploads",
		},
		Database: DatabaseConfig{
			Host: "127.0.0.1",
			Port: "3306",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		JWT: JWTConfig{
			PrivateKeyPath: "jwt/private_key.pem",
			PublicKeyPath:  "jwt/public_key.pem",
			TokenTTL:       24 * time.Hour,
		},
		Session: SessionConfig{
			CookieName: "session_id",
			TTL:        7 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads the yaml file on top of the defaults, then applies a .env
// file when present and the environment variables.
func LoadConfig(filename string) (Config, error) {
	config := defaults()

	file, err := os.Open(filename)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("decode %s: %w", filename, err)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return config, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&config); err != nil {
		return config, err
	}

	return config, nil
}

func applyEnv(config *Config) error {
	stringVars := map[string]*string{
		"APP_ENV":        &config.Env,
		"SERVER_ADDR":    &config.Server.Addr,
		"DB_USERNAME":    &config.Database.Username,
		"DB_PASSWORD":    &config.Database.Password,
		"DB_HOST":        &config.Database.Host,
		"DB_PORT":        &config.Database.Port,
		"DB_NAME":        &config.Database.Database,
		"REDIS_ADDR":     &config.Redis.Addr,
		"REDIS_PASSWORD": &config.Redis.Password,
		"LOG_LEVEL":      &config.Log.Level,
	}
	for name, field := range stringVars {
		if value, ok := os.LookupEnv(name); ok {
			*field = value
		}
	}

	if value, ok := os.LookupEnv("REDIS_DB"); ok {
		db, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		config.Redis.Database = db
	}
	return nil
}
