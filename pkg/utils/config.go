package utils

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Email    EmailConfig
	OTP      OTPConfig
	OAuth    OAuthConfig
	Clients  ClientsConfig
	Frontend FrontendConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	Env     string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret              string
	SessionExpiryMin    int
	ResetTokenExpiryMin int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type OTPConfig struct {
	ExpiryMinutes int
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// ClientsConfig carries keys for the external providers. A missing key
// disables the feature rather than failing startup.
type ClientsConfig struct {
	IPInfoToken        string
	EmailVerifierToken string
	SupabaseURL        string
	SupabaseSecretKey  string
	SupabaseBucket     string
}

type FrontendConfig struct {
	BaseURL string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_SESSION_EXPIRY_MINUTES", 30)
	viper.SetDefault("JWT_RESET_EXPIRY_MINUTES", 2)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 5)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("SUPABASE_BUCKET", "photos")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
			Env:     viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:              viper.GetString("JWT_SECRET"),
			SessionExpiryMin:    viper.GetInt("JWT_SESSION_EXPIRY_MINUTES"),
			ResetTokenExpiryMin: viper.GetInt("JWT_RESET_EXPIRY_MINUTES"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		},
		Clients: ClientsConfig{
			IPInfoToken:        viper.GetString("IPINFO_TOKEN"),
			EmailVerifierToken: viper.GetString("EMAIL_VERIFICATION_TOKEN"),
			SupabaseURL:        viper.GetString("SUPABASE_URL"),
			SupabaseSecretKey:  viper.GetString("SUPABASE_SECRET_KEY"),
			SupabaseBucket:     viper.GetString("SUPABASE_BUCKET"),
		},
		Frontend: FrontendConfig{
			BaseURL: viper.GetString("FRONTEND_BASE_URL"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}

// IsProduction reports whether the app runs with production settings.
// Cookie security flags depend on it.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DatabaseURL builds the connection URL used by the migration runner.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}
