package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Port int `env:"PORT" envDefault:"8080"`
	// Dsn selects Postgres storage. Empty keeps bookmarks in memory.
	Dsn               string        `env:"DSN"`
	StadiaAPIKey      string        `env:"STADIA_API_KEY"`
	StadiaBaseURL     string        `env:"STADIA_BASE_URL" envDefault:"https://api.stadiamaps.com"`
	MapboxAPIKey      string        `env:"MAPBOX_API_KEY"`
	MapboxBaseURL     string        `env:"MAPBOX_BASE_URL" envDefault:"https://api.mapbox.com"`
	RoutingProvider   string        `env:"ROUTING_PROVIDER" envDefault:"mapbox"`
	ValhallaBaseURL   string        `env:"VALHALLA_BASE_URL" envDefault:"https://api.stadiamaps.com"`
	ProviderTimeout   time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
	DistanceScale     int           `env:"DISTANCE_SCALE" envDefault:"10"`
	RouteAlternatives int           `env:"ROUTE_ALTERNATIVES" envDefault:"3"`
	RouteCacheTTL     time.Duration `env:"ROUTE_CACHE_TTL" envDefault:"10m"`
	EventBuffer       int           `env:"EVENT_BUFFER" envDefault:"16"`
	SessionIdleTTL    time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	cfg, parseErr := Parse()
	if parseErr != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	return cfg
}

// Parse reads the process environment without loading .env.
func Parse() (*Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return &cfg, err
}
