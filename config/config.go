package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	LLM      LLM
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// LLM configures the generation backend. AssessmentModel serves test
// generation and answer judging; PlanModel serves the long-form plan
// synthesis chain. Both share the same API key, base URL and retry policy.
type LLM struct {
	APIKey          string
	BaseURL         string
	AssessmentModel string
	PlanModel       string
	MaxRetries      int
	RequestTimeout  time.Duration
	PlanWebSearch   bool
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LLM_ASSESSMENT_MODEL", "gpt-4o-mini")
	viper.SetDefault("LLM_PLAN_MODEL", "gpt-4o")
	viper.SetDefault("LLM_MAX_RETRIES", 3)
	viper.SetDefault("LLM_REQUEST_TIMEOUT", "90s")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.LLM.APIKey = viper.GetString("LLM_API_KEY")
	config.LLM.BaseURL = viper.GetString("LLM_BASE_URL")
	config.LLM.AssessmentModel = viper.GetString("LLM_ASSESSMENT_MODEL")
	config.LLM.PlanModel = viper.GetString("LLM_PLAN_MODEL")
	config.LLM.MaxRetries = viper.GetInt("LLM_MAX_RETRIES")
	config.LLM.RequestTimeout = viper.GetDuration("LLM_REQUEST_TIMEOUT")
	config.LLM.PlanWebSearch = viper.GetBool("LLM_PLAN_WEB_SEARCH")

	log.Info().
		Str("port", config.Server.Port).
		Str("assessment_model", config.LLM.AssessmentModel).
		Str("plan_model", config.LLM.PlanModel).
		Msg("Config loaded")
	return &config, nil
}
