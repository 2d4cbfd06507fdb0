package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string   `mapstructure:"PORT"`
	Env              string   `mapstructure:"ENV"`
	DatabaseURL      string   `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns       int32    `mapstructure:"DB_MIN_CONNS"`
	DBSchema         string   `mapstructure:"DB_SCHEMA"`
	MigrationsDir    string   `mapstructure:"MIGRATIONS_DIR"`
	AuthJWTSecret    string   `mapstructure:"AUTH_JWT_SECRET"`
	AuthIssuer       string   `mapstructure:"AUTH_ISSUER"`
	AuthAudience     string   `mapstructure:"AUTH_AUDIENCE"`
	CORSOrigins      []string `mapstructure:"CORS_ORIGINS"`
	RequestTimeout   int      `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	DefaultPageSize  int      `mapstructure:"DEFAULT_PAGE_SIZE"`
	ClinicName       string   `mapstructure:"CLINIC_NAME"`
	ClinicTagline    string   `mapstructure:"CLINIC_TAGLINE"`
	ClinicContact    string   `mapstructure:"CLINIC_CONTACT"`
	ClinicDisclaimer string   `mapstructure:"CLINIC_DISCLAIMER"`
}

var envKeys = []string{
	"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "DB_SCHEMA", "MIGRATIONS_DIR",
	"AUTH_JWT_SECRET", "AUTH_ISSUER", "AUTH_AUDIENCE", "CORS_ORIGINS",
	"REQUEST_TIMEOUT_SECONDS", "DEFAULT_PAGE_SIZE",
	"CLINIC_NAME", "CLINIC_TAGLINE", "CLINIC_CONTACT", "CLINIC_DISCLAIMER",
}

// Load reads configuration from the process environment. A .env file in the
// working directory is loaded first when present; variables already set in the
// environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("MIGRATIONS_DIR", "./migrations")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("CLINIC_NAME", "ÓPTICA OMEGA")
	v.SetDefault("CLINIC_TAGLINE", "Especialistas en salud visual")
	v.SetDefault("CLINIC_CONTACT", "Sonora #2515, Nuevo Laredo, Tamps.  |  Tel: (867) 712-2210")
	v.SetDefault("CLINIC_DISCLAIMER", "Óptica Omega - Todos los derechos reservados")

	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// viper splits on commas without trimming
	cfg.CORSOrigins = splitList(strings.Join(cfg.CORSOrigins, ","))

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ENV=development, requests without a bearer token are accepted as the dev user.")
	}

	return cfg, nil
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

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

var allowedPageSizes = map[int]bool{5: true, 10: true, 20: true, 50: true}

// Validate checks that the configuration is safe to run. Outside development
// the hosted store's JWT secret must be configured so bearer tokens are verified.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthJWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET must be set when ENV=%q", c.Env)
	}
	if !allowedPageSizes[c.DefaultPageSize] {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be one of 5, 10, 20, 50, got %d", c.DefaultPageSize)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS cannot be negative")
	}
	return nil
}
