package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// ClientConfig describes one outbound HTTP provider.
type ClientConfig struct {
	BaseURL string        `mapstructure:"baseURL"`
	APIKey  string        `mapstructure:"apiKey"`
	Timeout time.Duration `mapstructure:"timeout"`
	Model   string        `mapstructure:"model"`
}

type JWTConfig struct {
	SecretKey       string        `mapstructure:"secretKey"`
	Issuer          string        `mapstructure:"issuer"`
	AccessTokenTTL  time.Duration `mapstructure:"accessTokenTTL"`
	RefreshTokenTTL time.Duration `mapstructure:"refreshTokenTTL"`
}

type PlannerConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	PhotoConcurrency int           `mapstructure:"photoConcurrency"`
	MaxDays          int           `mapstructure:"maxDays"`
	RateLimit        struct {
		RequestsPerMinute int `mapstructure:"requestsPerMinute"`
		Burst             int `mapstructure:"burst"`
	} `mapstructure:"rateLimit"`
}

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort     string        `mapstructure:"HTTPPort"`
		Timeout      time.Duration `mapstructure:"HTTPTimeout"`
		ReadTimeout  time.Duration `mapstructure:"readTimeout"`
		WriteTimeout time.Duration `mapstructure:"writeTimeout"`
		BaseURL      string        `mapstructure:"baseURL"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT     JWTConfig `mapstructure:"jwt"`
	Session struct {
		FlashTTL time.Duration `mapstructure:"flashTTL"`
		Secure   bool          `mapstructure:"secure"`
	} `mapstructure:"session"`
	Clients struct {
		Gemini      ClientConfig `mapstructure:"gemini"`
		Unsplash    ClientConfig `mapstructure:"unsplash"`
		Wikipedia   ClientConfig `mapstructure:"wikipedia"`
		OpenWeather ClientConfig `mapstructure:"openWeather"`
		Mapbox      ClientConfig `mapstructure:"mapbox"`
	} `mapstructure:"clients"`
	Planner PlannerConfig `mapstructure:"planner"`
	OAuth   struct {
		Google struct {
			ClientID     string `mapstructure:"clientID"`
			ClientSecret string `mapstructure:"clientSecret"`
			CallbackURL  string `mapstructure:"callbackURL"`
		} `mapstructure:"google"`
	} `mapstructure:"oauth"`
	Observability struct {
		ServiceName string `mapstructure:"serviceName"`
		MetricsPort string `mapstructure:"metricsPort"`
	} `mapstructure:"observability"`
}

// secrets are never committed to config.yml; they come from the environment.
var secretEnv = map[string]string{
	"clients.gemini.apiKey":          "GEMINI_API_KEY",
	"clients.unsplash.apiKey":        "UNSPLASH_ACCESS_KEY",
	"clients.openWeather.apiKey":     "WEATHER_API_KEY",
	"clients.mapbox.apiKey":          "MAP_TOKEN",
	"jwt.secretKey":                  "JWT_SECRET",
	"oauth.google.clientID":          "GOOGLE_CLIENT_ID",
	"oauth.google.clientSecret":      "GOOGLE_CLIENT_SECRET",
	"repositories.postgres.host":     "POSTGRES_HOST",
	"repositories.postgres.port":     "POSTGRES_PORT",
	"repositories.postgres.db":       "POSTGRES_DB",
	"repositories.postgres.username": "POSTGRES_USER",
	"repositories.postgres.password": "POSTGRES_PASSWORD",
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range secretEnv {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&config)
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == "" {
		cfg.Server.HTTPPort = "8000"
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 120 * time.Second
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "trippy"
	}
	if cfg.Observability.MetricsPort == "" {
		cfg.Observability.MetricsPort = "9090"
	}
	if cfg.Planner.PhotoConcurrency <= 0 {
		cfg.Planner.PhotoConcurrency = 4
	}
	if cfg.Planner.Timeout <= 0 {
		cfg.Planner.Timeout = 90 * time.Second
	}
	if cfg.JWT.AccessTokenTTL <= 0 {
		cfg.JWT.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenTTL <= 0 {
		cfg.JWT.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if cfg.Session.FlashTTL <= 0 {
		cfg.Session.FlashTTL = 5 * time.Minute
	}
	if cfg.Clients.Gemini.Model == "" {
		cfg.Clients.Gemini.Model = "gemini-2.0-flash"
	}
}
