package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration of the service
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Database   DatabaseConfig  `yaml:"database"`
	Redis      RedisConfig     `yaml:"redis"`
	JWT        JWTConfig       `yaml:"jwt"`
	S3         S3Config        `yaml:"s3"`
	Storage    StorageConfig   `yaml:"storage"`
	References ReferenceConfig `yaml:"references"`
	Logger     LoggerConfig    `yaml:"logger"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// GetDSN returns the postgres DSN, preferring an explicit URL
func (d DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	URL      string        `yaml:"url"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	ViewTTL  time.Duration `yaml:"view_ttl"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type S3Config struct {
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	KeyPrefix     string `yaml:"key_prefix"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// Enabled reports whether enough S3 settings exist to build a client
func (s S3Config) Enabled() bool {
	return s.Bucket != "" && s.Region != ""
}

type StorageConfig struct {
	UploadDir     string        `yaml:"upload_dir"`
	MaxUploadSize int64         `yaml:"max_upload_size"`
	MaxFiles      int           `yaml:"max_files"`
	StaleAfter    time.Duration `yaml:"stale_after"`
	SweepSchedule string        `yaml:"sweep_schedule"`
}

// ReferenceConfig lists the tags and barangays seeded at startup
type ReferenceConfig struct {
	Tags      []string `yaml:"tags"`
	Barangays []string `yaml:"barangays"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Mode:            "debug",
			BasePath:        "/api",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "barangay_projects",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			ViewTTL: 24 * time.Hour,
		},
		S3: S3Config{
			KeyPrefix: "media",
		},
		Storage: StorageConfig{
			UploadDir:     "uploads",
			MaxUploadSize: 10 << 20,
			MaxFiles:      10,
			StaleAfter:    time.Hour,
			SweepSchedule: "@every 30m",
		},
		References: ReferenceConfig{
			Tags:      []string{"Infrastructure", "Health", "Education", "Agriculture", "Environment", "Livelihood"},
			Barangays: []string{"Poblacion"},
		},
		Logger: LoggerConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from .env, the yaml file at path, and the environment.
// A missing .env or yaml file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Mode, "SERVER_MODE")
	setString(&cfg.Server.BasePath, "SERVER_BASE_PATH")
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = splitList(origins)
	}

	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")

	if enabled := os.Getenv("REDIS_ENABLED"); enabled != "" {
		cfg.Redis.Enabled, _ = strconv.ParseBool(enabled)
	}
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")

	setString(&cfg.JWT.Secret, "JWT_SECRET")

	setString(&cfg.S3.Bucket, "S3_BUCKET")
	setString(&cfg.S3.Region, "S3_REGION")
	setString(&cfg.S3.Endpoint, "S3_ENDPOINT")
	setString(&cfg.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.S3.SecretKey, "S3_SECRET_KEY")
	setString(&cfg.S3.PublicBaseURL, "S3_PUBLIC_BASE_URL")

	setString(&cfg.Storage.UploadDir, "UPLOAD_DIR")
	setString(&cfg.Storage.SweepSchedule, "SWEEP_SCHEDULE")
	setInt(&cfg.Storage.MaxFiles, "MAX_FILES")
	if stale := os.Getenv("STALE_AFTER"); stale != "" {
		if d, err := time.ParseDuration(stale); err == nil {
			cfg.Storage.StaleAfter = d
		}
	}

	setString(&cfg.Logger.Level, "LOG_LEVEL")
}

// Validate checks settings that would otherwise fail late at runtime
func (c *Config) Validate() error {
	if c.Server.Mode == "release" && c.JWT.Secret == "" {
		return errors.New("jwt.secret is required in release mode")
	}
	if c.Database.MaxOpenConns <= 0 || c.Database.MaxIdleConns <= 0 {
		return errors.New("database pool sizes must be positive")
	}
	if c.Storage.MaxFiles <= 0 {
		return errors.New("storage.max_files must be positive")
	}
	if strings.TrimSpace(c.Storage.UploadDir) == "" {
		return errors.New("storage.upload_dir is required")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
