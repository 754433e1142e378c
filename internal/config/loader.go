package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/gridkit/gridexpr/internal/db"
)

// Server holds the runtime configuration of the grid server.
type Server struct {
	Addr           string
	MigrationsPath string
	AllowedOrigins []string
	Database       db.Config
}

// DefaultServer returns a default server configuration.
func DefaultServer() Server {
	return Server{
		Addr:           ":8080",
		MigrationsPath: "./migrations",
		AllowedOrigins: []string{"http://localhost:3000"},
		Database:       db.DefaultConfig(),
	}
}

// Load reads config.yaml from the given path, with environment overrides
// (GRID_SERVER_ADDR, GRID_DATABASE_HOST, ...).
func Load(configPath string) (Server, error) {
	cfg := DefaultServer()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("GRID")

	v.BindEnv("server.addr")
	v.BindEnv("server.migrations_path")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.migrations_path") {
		cfg.MigrationsPath = v.GetString("server.migrations_path")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}

	return cfg, nil
}
