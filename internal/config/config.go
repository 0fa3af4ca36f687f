package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Enabled  bool   `yaml:"enabled"`
	} `yaml:"redis"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Storage struct {
		Type      string `yaml:"type"`       // local, cloudflare_r2, minio
		BasePath  string `yaml:"base_path"`  // local storage root
		BaseURL   string `yaml:"base_url"`   // public URL base
		Bucket    string `yaml:"bucket"`     // R2/MinIO
		Region    string `yaml:"region"`     // S3-compatible region
		AccessKey string `yaml:"access_key"` // R2/MinIO
		SecretKey string `yaml:"secret_key"` // R2/MinIO
		Endpoint  string `yaml:"endpoint"`   // R2 account endpoint or MinIO host
		UseSSL    bool   `yaml:"use_ssl"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64 `yaml:"max_size"` // bytes
		ImageQuality int   `yaml:"image_quality"`
		Thumbnails   bool  `yaml:"thumbnails"`
	} `yaml:"upload"`

	Preview struct {
		ResetDelayMs int `yaml:"reset_delay_ms"`
	} `yaml:"preview"`

	// Seeded admin credentials come from the environment only.
	FirstAdminEmail    string `yaml:"-"`
	FirstAdminPassword string `yaml:"-"`
}

var AppConfig *Config

// LoadConfig reads config.yaml unless DATABASE_URL is set, in which case
// the environment takes over (test and container deployments).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	// must match the root-mounted local file route
	cfg.Storage.BaseURL = "/files"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	cfg.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.FirstAdminPassword = os.Getenv("FIRST_ADMIN_PASSWORD")
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 20 * 1024 * 1024 // 20MB
	}
	if cfg.Upload.ImageQuality == 0 {
		cfg.Upload.ImageQuality = 85
	}
	if cfg.Preview.ResetDelayMs == 0 {
		cfg.Preview.ResetDelayMs = 300
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
