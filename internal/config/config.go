package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Line      LineConfig      `yaml:"line"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Audio     AudioConfig     `yaml:"audio"`
	Records   RecordsConfig   `yaml:"records"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port" validate:"required,numeric"`
	Environment  string        `yaml:"environment" validate:"oneof=development production test"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type LineConfig struct {
	ChannelSecret      string `yaml:"channel_secret"`
	ChannelAccessToken string `yaml:"channel_access_token"`
	APIBase            string `yaml:"api_base" validate:"required,url"`
	DataAPIBase        string `yaml:"data_api_base" validate:"required,url"`
}

type OpenAIConfig struct {
	APIKey             string        `yaml:"api_key"`
	BaseURL            string        `yaml:"base_url" validate:"omitempty,url"`
	TranscriptionModel string        `yaml:"transcription_model" validate:"required"`
	Language           string        `yaml:"language"`
	ChatModel          string        `yaml:"chat_model" validate:"required"`
	Timeout            time.Duration `yaml:"timeout" validate:"gt=0"`
}

type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
}

type SynthesisConfig struct {
	Provider     string        `yaml:"provider" validate:"oneof=openai gemini"`
	Temperature  float32       `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxAttempts  int           `yaml:"max_attempts" validate:"gte=1,lte=10"`
	InitialDelay time.Duration `yaml:"initial_delay" validate:"gte=0"`
	Multiplier   float64       `yaml:"multiplier" validate:"gte=1"`
}

type AudioConfig struct {
	TempDir     string `yaml:"temp_dir"`
	Mode        string `yaml:"mode" validate:"oneof=auto always"`
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

type RecordsConfig struct {
	Root string `yaml:"root" validate:"required"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite3 postgres none"`
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	EventTTL time.Duration `yaml:"event_ttl"`
}

type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint" validate:"required_if=Enabled true"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type LogConfig struct {
	Development bool `yaml:"development"`
}

// RunBudget is the longest a single pipeline run can take on remote calls:
// one transcription plus every synthesis attempt, each bounded by the OpenAI
// timeout, plus the backoff delays between attempts.
func (c *Config) RunBudget() time.Duration {
	budget := c.OpenAI.Timeout * time.Duration(1+c.Synthesis.MaxAttempts)
	delay := float64(c.Synthesis.InitialDelay)
	for i := 1; i < c.Synthesis.MaxAttempts; i++ {
		budget += time.Duration(delay)
		delay *= c.Synthesis.Multiplier
	}
	return budget
}

// Default returns a configuration populated with defaults only.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads the YAML file at path, expanding ${VAR} references, then applies
// defaults and environment overrides. An empty path or a missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.setDefaults()

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Server.Environment == "" {
		c.Server.Environment = DefaultEnvironment
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = DefaultIdleTimeout
	}
	if c.Line.APIBase == "" {
		c.Line.APIBase = DefaultLineAPIBase
	}
	if c.Line.DataAPIBase == "" {
		c.Line.DataAPIBase = DefaultLineDataBase
	}
	if c.OpenAI.TranscriptionModel == "" {
		c.OpenAI.TranscriptionModel = DefaultTranscriptionModel
	}
	if c.OpenAI.Language == "" {
		c.OpenAI.Language = DefaultLanguage
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = DefaultChatModel
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = DefaultOpenAITimeout
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}
	if c.Synthesis.Provider == "" {
		c.Synthesis.Provider = DefaultSynthesisProvider
	}
	if c.Synthesis.Temperature == 0 {
		c.Synthesis.Temperature = DefaultTemperature
	}
	if c.Synthesis.MaxAttempts == 0 {
		c.Synthesis.MaxAttempts = DefaultMaxAttempts
	}
	if c.Synthesis.InitialDelay == 0 {
		c.Synthesis.InitialDelay = DefaultInitialDelay
	}
	if c.Synthesis.Multiplier == 0 {
		c.Synthesis.Multiplier = DefaultMultiplier
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = c.RunBudget() + WriteTimeoutMargin
	}
	if c.Audio.TempDir == "" {
		c.Audio.TempDir = filepath.Join(os.TempDir(), "carebot")
	}
	if c.Audio.Mode == "" {
		c.Audio.Mode = DefaultAudioMode
	}
	if c.Audio.FFmpegPath == "" {
		c.Audio.FFmpegPath = DefaultFFmpegPath
	}
	if c.Audio.FFprobePath == "" {
		c.Audio.FFprobePath = DefaultFFprobePath
	}
	if c.Records.Root == "" {
		c.Records.Root = DefaultRecordsDir
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDBDriver
	}
	if c.Database.DSN == "" && c.Database.Driver == DefaultDBDriver {
		c.Database.DSN = DefaultSQLitePath
	}
	if c.Redis.EventTTL == 0 {
		c.Redis.EventTTL = DefaultEventTTL
	}
	if c.Archive.Bucket == "" {
		c.Archive.Bucket = DefaultMinioBucket
	}
}

// applyEnv overrides file values with well-known environment variables.
func (c *Config) applyEnv() {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.Environment = getEnvOrDefault("ENVIRONMENT", c.Server.Environment)
	c.Line.ChannelSecret = getEnvOrDefault("LINE_CHANNEL_SECRET", c.Line.ChannelSecret)
	c.Line.ChannelAccessToken = getEnvOrDefault("LINE_CHANNEL_ACCESS_TOKEN", c.Line.ChannelAccessToken)
	c.OpenAI.APIKey = getEnvOrDefault("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.BaseURL = getEnvOrDefault("OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.Gemini.APIKey = getEnvOrDefault("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Synthesis.Provider = getEnvOrDefault("SYNTHESIS_PROVIDER", c.Synthesis.Provider)
	c.Records.Root = getEnvOrDefault("RECORDS_DIR", c.Records.Root)
	c.Database.Driver = getEnvOrDefault("DATABASE_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnvOrDefault("DATABASE_DSN", c.Database.DSN)
	c.Redis.Addr = getEnvOrDefault("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", c.Redis.Password)
	c.Archive.Endpoint = getEnvOrDefault("MINIO_ENDPOINT", c.Archive.Endpoint)
	c.Archive.AccessKey = getEnvOrDefault("MINIO_ACCESS_KEY", c.Archive.AccessKey)
	c.Archive.SecretKey = getEnvOrDefault("MINIO_SECRET_KEY", c.Archive.SecretKey)
	c.Archive.Bucket = getEnvOrDefault("MINIO_BUCKET", c.Archive.Bucket)

	if v, err := strconv.ParseBool(os.Getenv("MINIO_USE_SSL")); err == nil {
		c.Archive.UseSSL = v
	}
	if v, err := strconv.ParseBool(os.Getenv("ARCHIVE_ENABLED")); err == nil {
		c.Archive.Enabled = v
	}
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
