package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Configuration holds everything the server needs at startup.
type Configuration struct {
	Port            string        `env:"PORT" envDefault:"8000"`
	MongoURI        string        `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017/?replicaSet=rs0"`
	MongoDatabase   string        `env:"MONGODB_DATABASE" envDefault:"restaurant"`
	SecretKey       string        `env:"SECRET_KEY,required"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	CorsOrigins     string        `env:"CORS_ORIGINS" envDefault:"http://localhost:9000"`
	AssetsDeleteURL string        `env:"ASSETS_DELETE_URL"`
	AssetsToken     string        `env:"ASSETS_TOKEN"`
	RabbitMQURL     string        `env:"RABBITMQ_URL"`
	EventsExchange  string        `env:"EVENTS_EXCHANGE" envDefault:"orders_fanout"`
	Timezone        string        `env:"TIMEZONE" envDefault:"America/Sao_Paulo"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	LogOutput       string        `env:"LOG_OUTPUT" envDefault:"stdout"`
	LogPath         string        `env:"LOG_PATH" envDefault:"logs"`
}

// NewConfig loads the given env files (".env" when none) and parses the
// environment into a Configuration. A missing env file is not an error.
func NewConfig(files ...string) (*Configuration, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// AllowedOrigins splits CorsOrigins on commas.
func (c *Configuration) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CorsOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Location resolves Timezone, falling back to the process local zone.
func (c *Configuration) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
