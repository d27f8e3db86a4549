package config

import "time"

// Default configuration constants
const (
	DefaultPort        = "5000"
	DefaultEnvironment = "development"

	DefaultReadTimeout = 30 * time.Second
	DefaultIdleTimeout = 120 * time.Second

	// Added on top of the worst-case run when deriving the write timeout.
	WriteTimeoutMargin = time.Minute

	// Remote calls can run long on real recordings.
	DefaultOpenAITimeout = 300 * time.Second

	DefaultTranscriptionModel = "whisper-1"
	DefaultLanguage           = "zh"
	DefaultChatModel          = "gpt-4-turbo-preview"
	DefaultGeminiModel        = "gemini-2.0-flash"
	DefaultTemperature        = 0.7

	DefaultSynthesisProvider = "openai"
	DefaultMaxAttempts       = 3
	DefaultInitialDelay      = 5 * time.Second
	DefaultMultiplier        = 2.0

	DefaultAudioMode   = "auto"
	DefaultFFmpegPath  = "ffmpeg"
	DefaultFFprobePath = "ffprobe"

	DefaultRecordsDir   = "records"
	DefaultDBDriver     = "sqlite3"
	DefaultSQLitePath   = "data/care_records.db"
	DefaultEventTTL     = 24 * time.Hour
	DefaultMinioBucket  = "care-records"
	DefaultLineAPIBase  = "https://api.line.me"
	DefaultLineDataBase = "https://api-data.line.me"
)
