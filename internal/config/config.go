package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	Storage struct {
		Endpoint    string `mapstructure:"endpoint"`
		AccessKey   string `mapstructure:"access_key"`
		SecretKey   string `mapstructure:"secret_key"`
		Bucket      string `mapstructure:"bucket"`
		Region      string `mapstructure:"region"`
		PublicBase  string `mapstructure:"public_base"`
		PrivateMode bool   `mapstructure:"private_mode"`
	} `mapstructure:"storage"`

	Queue struct {
		DataDir string `mapstructure:"data_dir"`
	} `mapstructure:"queue"`

	Assistant struct {
		Endpoint string `mapstructure:"endpoint"`
		Model    string `mapstructure:"model"`
		APIKey   string `mapstructure:"api_key"`
	} `mapstructure:"assistant"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "wastex_db")
	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.bucket", "wastex-photos")
	v.SetDefault("queue.data_dir", "data")
	v.SetDefault("assistant.model", "gpt-4o-mini")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// Blob storage credentials come from the environment, never the config file
	if endpoint := os.Getenv("STORAGE_ENDPOINT"); endpoint != "" {
		cfg.Storage.Endpoint = endpoint
	}
	if key := os.Getenv("STORAGE_ACCESS_KEY"); key != "" {
		cfg.Storage.AccessKey = key
	}
	if secret := os.Getenv("STORAGE_SECRET_KEY"); secret != "" {
		cfg.Storage.SecretKey = secret
	}
	if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
		cfg.Storage.Bucket = bucket
	}
	if base := os.Getenv("STORAGE_PUBLIC_BASE"); base != "" {
		cfg.Storage.PublicBase = base
	}

	if dir := os.Getenv("QUEUE_DATA_DIR"); dir != "" {
		cfg.Queue.DataDir = dir
	}

	// Assistant settings
	if endpoint := os.Getenv("ASSISTANT_ENDPOINT"); endpoint != "" {
		cfg.Assistant.Endpoint = endpoint
	}
	if model := os.Getenv("ASSISTANT_MODEL"); model != "" {
		cfg.Assistant.Model = model
	}
	if cfg.Assistant.APIKey == "" {
		cfg.Assistant.APIKey = os.Getenv("ASSISTANT_API_KEY")
	}

	return &cfg
}
