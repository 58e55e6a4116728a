package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Sales    SalesConfig
	Print    PrintConfig
	AI       AIConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// BackendConfig points at the external PHP REST backend that owns products,
// sales, spoilage and users.
type BackendConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SalesConfig fixes the tax policy. TaxRate is a single explicit knob: 0
// disables tax, 0.08 applies the 8% rate some deployments ran with.
type SalesConfig struct {
	TaxRate float64
}

// PrintConfig selects the receipt payload strategy handed to the external
// Bluetooth-printing app.
type PrintConfig struct {
	Strategy      string // "indirect" or "inline"
	Scheme        string // custom URI scheme the printing app intercepts
	PublicBaseURL string // base URL of this service, used by the indirect sink
}

type AIConfig struct {
	APIKey string
	Model  string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("BACKEND_BASE_URL", "https://sagheerplus.com.ng/retaillab")
	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 15)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SALES_TAX_RATE", 0.0)
	viper.SetDefault("PRINT_STRATEGY", "indirect")
	viper.SetDefault("PRINT_SCHEME", "my.bluetoothprint.scheme")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Backend: BackendConfig{
			BaseURL:        viper.GetString("BACKEND_BASE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("BACKEND_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Sales: SalesConfig{
			TaxRate: viper.GetFloat64("SALES_TAX_RATE"),
		},
		Print: PrintConfig{
			Strategy:      viper.GetString("PRINT_STRATEGY"),
			Scheme:        viper.GetString("PRINT_SCHEME"),
			PublicBaseURL: viper.GetString("PUBLIC_BASE_URL"),
		},
		AI: AIConfig{
			APIKey: viper.GetString("GEMINI_API_KEY"),
			Model:  viper.GetString("GEMINI_MODEL"),
		},
	}
}
