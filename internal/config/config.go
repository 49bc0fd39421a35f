package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"

	DefaultGroqModel   = "llama-3.3-70b-versatile"
	DefaultGeminiModel = "gemini-2.5-pro"
)

var (
	ErrMissingCredential = errors.New("missing model api credential")
	ErrUnknownProvider   = errors.New("unknown model provider")
)

type Config struct {
	Provider string
	Model    string
	APIKey   string
	LogLevel string
	HTTPAddr string
	Workers  int

	DBURL       string
	RabbitMQURL string
	R2          R2Config
}

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Load reads the process environment (and a .env file when present) once.
// Nothing below the command layer reads the environment again.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Provider:    strings.ToLower(getEnv("SKILLSYNC_PROVIDER", ProviderGroq)),
		Model:       os.Getenv("SKILLSYNC_MODEL"),
		LogLevel:    getEnv("SKILLSYNC_LOG_LEVEL", "info"),
		HTTPAddr:    getEnv("SKILLSYNC_HTTP_ADDR", ":8080"),
		Workers:     3,
		DBURL:       os.Getenv("DB_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		R2: R2Config{
			AccountID: os.Getenv("R2_ACCOUNT_ID"),
			Bucket:    os.Getenv("R2_BUCKET"),
			AccessKey: os.Getenv("R2_ACCESS_KEY"),
			SecretKey: os.Getenv("R2_SECRET_KEY"),
		},
	}

	if raw := os.Getenv("SKILLSYNC_WORKERS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return cfg, errors.Errorf("invalid SKILLSYNC_WORKERS: %q", raw)
		}
		cfg.Workers = n
	}

	switch cfg.Provider {
	case ProviderGroq:
		cfg.APIKey = os.Getenv("GROQ_API_KEY")
	case ProviderGemini:
		cfg.APIKey = os.Getenv("GOOGLE_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the model settings every mode needs and fills in the
// provider's default model.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGroq:
		if c.APIKey == "" {
			return errors.Wrap(ErrMissingCredential, "empty GROQ_API_KEY in env")
		}
		if c.Model == "" {
			c.Model = DefaultGroqModel
		}
	case ProviderGemini:
		if c.APIKey == "" {
			return errors.Wrap(ErrMissingCredential, "empty GOOGLE_API_KEY in env")
		}
		if c.Model == "" {
			c.Model = DefaultGeminiModel
		}
	default:
		return errors.Wrapf(ErrUnknownProvider, "%q", c.Provider)
	}
	return nil
}

// ValidateWorker checks the settings the queue worker needs on top of Validate.
func (c *Config) ValidateWorker() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.RabbitMQURL == "" {
		return errors.New("empty RABBITMQ_URL in env")
	}
	if c.R2.AccountID == "" {
		return errors.New("empty R2_ACCOUNT_ID in environment")
	}
	if c.R2.Bucket == "" {
		return errors.New("empty R2_BUCKET in environment")
	}
	if c.R2.SecretKey == "" {
		return errors.New("empty R2_SECRET_KEY in environment")
	}
	if c.R2.AccessKey == "" {
		return errors.New("empty R2_ACCESS_KEY in environment")
	}
	return nil
}

func (c *Config) ValidateDatabase() error {
	if c.DBURL == "" {
		return errors.New("empty DB_URL in environment")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
