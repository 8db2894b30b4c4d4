package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuracion del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	LLMAPIKey  string `env:"LLM_API_KEY,required"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret           string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`

	// Tuning del motor de matching. Los pesos de la mezcla son constantes
	// configurables, no un contrato estructural.
	MatchCognitiveWeight   float64 `env:"MATCH_COGNITIVE_WEIGHT" envDefault:"0.7"`
	MatchSubjectWeight     float64 `env:"MATCH_SUBJECT_WEIGHT" envDefault:"0.3"`
	MatchAIShortlistSize   int     `env:"MATCH_AI_SHORTLIST_SIZE" envDefault:"8"`
	MatchAITimeoutSeconds  int     `env:"MATCH_AI_TIMEOUT_SECONDS" envDefault:"30"`
	MatchCacheTTLMinutes   int     `env:"MATCH_CACHE_TTL_MINUTES" envDefault:"60"`
	MatchRateLimit         int     `env:"MATCH_RATE_LIMIT" envDefault:"5"`
	MatchRateWindowMinutes int     `env:"MATCH_RATE_WINDOW_MINUTES" envDefault:"5"`
}

// LoadConfig carga la configuracion desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
