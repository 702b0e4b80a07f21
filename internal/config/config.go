package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Game     GameConfig
	Admin    AdminConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// GameConfig holds the betting rules
type GameConfig struct {
	MinStake         float64
	MaxStake         float64
	LockWindow       time.Duration // no new bets inside this window before endTime
	CancelGrace      time.Duration // cancels stop this long before the lock
	RoundDuration    time.Duration
	AutoOpenRounds   bool
	ClassAMultiplier float64
	ClassBMultiplier float64
	ClassCMultiplier float64
	ClassDMultiplier float64
}

// AdminConfig holds the bootstrap admin account
type AdminConfig struct {
	Email    string
	Password string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "lotto")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Game.MinStake", 10.0)
	viper.SetDefault("Game.MaxStake", 10000.0)
	viper.SetDefault("Game.LockWindow", "10m")
	viper.SetDefault("Game.CancelGrace", "30s")
	viper.SetDefault("Game.RoundDuration", "24h")
	viper.SetDefault("Game.AutoOpenRounds", true)
	viper.SetDefault("Game.ClassAMultiplier", 100.0)
	viper.SetDefault("Game.ClassBMultiplier", 10.0)
	viper.SetDefault("Game.ClassCMultiplier", 5.0)
	// Class D had no multiplier in the legacy rules; 9x matches the 1-in-9
	// odds of a single digit and is overridable per deployment.
	viper.SetDefault("Game.ClassDMultiplier", 9.0)
	viper.SetDefault("LogLevel", "info")
}
