package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Storage struct {
		Backend string `yaml:"backend" default:"memory"` // memory, redis, postgres
	} `yaml:"storage"`

	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		TokenTTL  time.Duration `yaml:"token_ttl" default:"24h"`
	} `yaml:"auth"`

	Matching struct {
		AutoApplyThreshold int           `yaml:"auto_apply_threshold" default:"85"`
		AutoApplyLimit     int           `yaml:"auto_apply_limit" default:"3"`
		NotifyThreshold    int           `yaml:"notify_threshold" default:"85"`
		RecentJobWindow    time.Duration `yaml:"recent_job_window" default:"24h"`
	} `yaml:"matching"`

	Lifecycle struct {
		Enabled  bool   `yaml:"enabled" default:"true"`
		CronSpec string `yaml:"cron_spec" default:"0 */6 * * *"`
	} `yaml:"lifecycle"`

	Ingest struct {
		UserAgent      string        `yaml:"user_agent"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"30s"`
		RateLimit      int           `yaml:"rate_limit" default:"60"` // requests per minute
		MaxJobs        int           `yaml:"max_jobs" default:"10"`
	} `yaml:"ingest"`

	CoverLetter struct {
		Provider    string        `yaml:"provider" default:"template"` // template, claude
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"claude-3-haiku-20240307"`
		MaxTokens   int           `yaml:"max_tokens" default:"1024"`
		Temperature float32       `yaml:"temperature" default:"0.3"`
		Timeout     time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"cover_letter"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Postgres struct {
		DSN             string        `yaml:"dsn"`
		MaxConns        int           `yaml:"max_conns" default:"10"`
		ConnectTimeout  time.Duration `yaml:"connect_timeout" default:"5s"`
		StatementTimout time.Duration `yaml:"statement_timeout" default:"30s"`
	} `yaml:"postgres"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	// Expand ${VAR} syntax
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	// Expand $VAR syntax (but avoid replacing ${VAR} that was already processed)
	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Storage.Backend = "memory"

	config.Auth.JWTSecret = "fallback-secret" // overridden by config file or JWT_SECRET
	config.Auth.TokenTTL = 24 * time.Hour

	config.Matching.AutoApplyThreshold = 85
	config.Matching.AutoApplyLimit = 3
	config.Matching.NotifyThreshold = 85
	config.Matching.RecentJobWindow = 24 * time.Hour

	config.Lifecycle.Enabled = true
	config.Lifecycle.CronSpec = "0 */6 * * *"

	config.Ingest.RequestTimeout = 30 * time.Second
	config.Ingest.RateLimit = 60
	config.Ingest.MaxJobs = 10
	config.Ingest.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	config.CoverLetter.Provider = "template"
	config.CoverLetter.Model = "claude-3-haiku-20240307"
	config.CoverLetter.MaxTokens = 1024
	config.CoverLetter.Temperature = 0.3
	config.CoverLetter.Timeout = 30 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	config.Postgres.MaxConns = 10
	config.Postgres.ConnectTimeout = 5 * time.Second
	config.Postgres.StatementTimout = 30 * time.Second

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.Auth.TokenTTL = d
		}
	}

	if threshold := os.Getenv("AUTO_APPLY_THRESHOLD"); threshold != "" {
		if t, err := strconv.Atoi(threshold); err == nil {
			c.Matching.AutoApplyThreshold = t
		}
	}

	if limit := os.Getenv("AUTO_APPLY_LIMIT"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			c.Matching.AutoApplyLimit = l
		}
	}

	if spec := os.Getenv("LIFECYCLE_CRON_SPEC"); spec != "" {
		c.Lifecycle.CronSpec = spec
	}

	if enabled := os.Getenv("LIFECYCLE_ENABLED"); enabled != "" {
		c.Lifecycle.Enabled = enabled == "true" || enabled == "1"
	}

	if provider := os.Getenv("COVER_LETTER_PROVIDER"); provider != "" {
		c.CoverLetter.Provider = provider
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.CoverLetter.APIKey = apiKey
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.CoverLetter.Model = model
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		c.Postgres.DSN = dsn
	}

	if maxConns := os.Getenv("POSTGRES_MAX_CONNS"); maxConns != "" {
		if n, err := strconv.Atoi(maxConns); err == nil {
			c.Postgres.MaxConns = n
		}
	}
}
