package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Superuser SuperuserConfig `mapstructure:"superuser"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Seed      SeedConfig      `mapstructure:"seed"`
	Share     ShareConfig     `mapstructure:"share"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// DatabaseConfig selects the repository backend. Driver is "memory" or "mongo".
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

// StorageConfig selects the file storage backend. Driver is "memory" or "s3".
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// SuperuserConfig is the credential pair that authenticates as the creator
// without a roster entry.
type SuperuserConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// RedisConfig points at the login limiter backend. An empty URL disables it.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type AuthConfig struct {
	MaxFailedLogins int           `mapstructure:"max_failed_logins"`
	LockoutWindow   time.Duration `mapstructure:"lockout_window"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ShareConfig holds the target of landing page applications.
type ShareConfig struct {
	TelegramAdmin string `mapstructure:"telegram_admin"`
}

const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
	DriverS3     = "s3"
)

// LoadConfig reads configuration from path/config.yaml, a .env file in path,
// and environment variables, in increasing order of precedence.
func LoadConfig(path string) (config Config, err error) {
	// .env only seeds the process environment; real env vars win.
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file is optional; defaults and env vars are enough.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.driver", DriverMemory)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "coach_platform")
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("superuser.username", "creator")
	v.SetDefault("superuser.password", "xiaomicoder")
	v.SetDefault("redis.url", "")
	v.SetDefault("auth.max_failed_logins", 5)
	v.SetDefault("auth.lockout_window", "15m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("seed.enabled", true)
	v.SetDefault("share.telegram_admin", "farruxradjabov94")
}

// Validate checks the combinations viper cannot express.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverMemory, DriverMongo:
	default:
		return errors.New("database.driver must be memory or mongo")
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverS3:
		if c.S3.BucketName == "" {
			return errors.New("s3.bucket_name is required when storage.driver is s3")
		}
	default:
		return errors.New("storage.driver must be memory or s3")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("jwt.expiration must be positive")
	}
	if c.Superuser.Username == "" || c.Superuser.Password == "" {
		return errors.New("superuser.username and superuser.password are required")
	}
	return nil
}
