// Package config handles loading and validating the aigateway configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for the aigateway service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Chat      ChatConfig      `mapstructure:"chat"`
	STT       STTConfig       `mapstructure:"stt"`
	TTS       TTSConfig       `mapstructure:"tts"`
	Vision    VisionConfig    `mapstructure:"vision"`
	Language  LanguageConfig  `mapstructure:"language"`
	Media     MediaConfig     `mapstructure:"media"`
	Diffusion DiffusionConfig `mapstructure:"diffusion"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Google    GoogleConfig    `mapstructure:"google"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Azure     AzureConfig     `mapstructure:"azure"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Local     LocalConfig     `mapstructure:"local"`
	Piper     PiperConfig     `mapstructure:"piper"`
	Stability StabilityConfig `mapstructure:"stability"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds the HTTP and health server settings.
type ServerConfig struct {
	Port           int   `mapstructure:"port"`
	HealthPort     int   `mapstructure:"health_port"`
	GRPCHealthPort int   `mapstructure:"grpc_health_port"` // 0 disables the gRPC health service
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// ChatConfig selects the chat backend. An empty backend disables /chatbot.
type ChatConfig struct {
	Backend string `mapstructure:"backend"` // "openai", "local" or ""
}

// STTConfig selects the speech-to-text backend.
type STTConfig struct {
	Backend      string `mapstructure:"backend"` // "google", "whisper" or ""
	LanguageCode string `mapstructure:"language_code"`
	SampleRate   int32  `mapstructure:"sample_rate"`
}

// TTSConfig selects and configures the text-to-speech backend.
type TTSConfig struct {
	Backend      string `mapstructure:"backend"` // "google", "piper" or ""
	LanguageCode string `mapstructure:"language_code"`
	Voice        string `mapstructure:"voice"`
}

// VisionConfig enables the image labeling and captioning capabilities.
type VisionConfig struct {
	Labels    string `mapstructure:"labels"`   // "google" or ""
	Captions  string `mapstructure:"captions"` // "azure" or ""
	MaxLabels int32  `mapstructure:"max_labels"`
}

// LanguageConfig enables entity extraction and sentiment analysis.
type LanguageConfig struct {
	Backend      string `mapstructure:"backend"` // "comprehend" or ""
	LanguageCode string `mapstructure:"language_code"`
}

// MediaConfig holds settings for the ffmpeg-backed capabilities.
type MediaConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	FFmpegPath  string `mapstructure:"ffmpeg_path"`
	FFprobePath string `mapstructure:"ffprobe_path"`
	// Root confines the server-side paths accepted by /audio-conversion.
	Root string `mapstructure:"root"`
}

// DiffusionConfig selects the image-to-image backend.
type DiffusionConfig struct {
	Backend       string `mapstructure:"backend"` // "stability" or ""
	DefaultPrompt string `mapstructure:"default_prompt"`
}

// StorageConfig selects where generated artifacts are written.
type StorageConfig struct {
	Backend string      `mapstructure:"backend"` // "local" or "s3"
	Local   LocalStore  `mapstructure:"local"`
	S3      S3StoreConf `mapstructure:"s3"`
}

// LocalStore writes artifacts under a directory on disk.
type LocalStore struct {
	Dir string `mapstructure:"dir"`
}

// S3StoreConf writes artifacts to an S3-compatible bucket.
type S3StoreConf struct {
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// GoogleConfig holds Google Cloud client settings shared by the vision,
// speech and text-to-speech adapters.
type GoogleConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	// Endpoint overrides the API endpoint (e.g. a local emulator, host:port).
	Endpoint string `mapstructure:"endpoint"`
	// Insecure dials Endpoint without TLS or authentication.
	Insecure bool `mapstructure:"insecure"`
}

// AWSConfig holds AWS client settings for Comprehend.
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Endpoint        string `mapstructure:"endpoint"`
}

// AzureConfig holds Azure Computer Vision settings.
type AzureConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	SubscriptionKey string `mapstructure:"subscription_key"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	APIKey             string `mapstructure:"api_key"`
	TranscriptionModel string `mapstructure:"transcription_model"`
	CompletionModel    string `mapstructure:"completion_model"`
	SystemPrompt       string `mapstructure:"system_prompt"`
}

// LocalConfig holds self-hosted model settings.
type LocalConfig struct {
	WhisperEndpoint string `mapstructure:"whisper_endpoint"`
	LLMEndpoint     string `mapstructure:"llm_endpoint"`
	LLMModel        string `mapstructure:"llm_model"` // Ollama model name (e.g., "llama3.2:1b")
	Language        string `mapstructure:"language"`  // ISO-639-1 default language (e.g., "en", "fr")
}

// PiperConfig holds Piper TTS settings (Wyoming protocol).
type PiperConfig struct {
	Endpoint string            `mapstructure:"endpoint"` // Wyoming TCP endpoint (host:port)
	Voices   map[string]string `mapstructure:"voices"`   // ISO-639-1 language code -> Piper voice model name
}

// StabilityConfig holds Stability AI REST settings.
type StabilityConfig struct {
	BaseURL       string  `mapstructure:"base_url"`
	APIKey        string  `mapstructure:"api_key"`
	Engine        string  `mapstructure:"engine"`
	ImageStrength float64 `mapstructure:"image_strength"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./aigateway.yaml, ./configs/aigateway.yaml, /etc/aigateway/aigateway.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("aigateway")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/aigateway")
	}

	// Environment variables: AIGATEWAY_SERVER_PORT, AIGATEWAY_CHAT_BACKEND, etc.
	v.SetEnvPrefix("AIGATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional; env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${OPENAI_API_KEY}")
	cfg.OpenAI.APIKey = resolveEnvRef(cfg.OpenAI.APIKey)
	cfg.Azure.SubscriptionKey = resolveEnvRef(cfg.Azure.SubscriptionKey)
	cfg.AWS.AccessKeyID = resolveEnvRef(cfg.AWS.AccessKeyID)
	cfg.AWS.SecretAccessKey = resolveEnvRef(cfg.AWS.SecretAccessKey)
	cfg.Stability.APIKey = resolveEnvRef(cfg.Stability.APIKey)
	cfg.Storage.S3.AccessKey = resolveEnvRef(cfg.Storage.S3.AccessKey)
	cfg.Storage.S3.SecretKey = resolveEnvRef(cfg.Storage.S3.SecretKey)
	cfg.Google.CredentialsFile = resolveEnvRef(cfg.Google.CredentialsFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.grpc_health_port", 0)
	v.SetDefault("server.max_upload_bytes", 25<<20)
	v.SetDefault("chat.backend", "openai")
	v.SetDefault("stt.backend", "google")
	v.SetDefault("stt.language_code", "en-US")
	v.SetDefault("stt.sample_rate", 16000)
	v.SetDefault("tts.backend", "google")
	v.SetDefault("tts.language_code", "en-US")
	v.SetDefault("vision.labels", "google")
	v.SetDefault("vision.captions", "azure")
	v.SetDefault("vision.max_labels", 10)
	v.SetDefault("language.backend", "comprehend")
	v.SetDefault("language.language_code", "en")
	v.SetDefault("media.enabled", true)
	v.SetDefault("media.ffmpeg_path", "ffmpeg")
	v.SetDefault("media.ffprobe_path", "ffprobe")
	v.SetDefault("media.root", ".")
	v.SetDefault("diffusion.backend", "stability")
	v.SetDefault("diffusion.default_prompt", "an animated illustration")
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local.dir", "./artifacts")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.api_key", "${OPENAI_API_KEY}")
	v.SetDefault("openai.transcription_model", "whisper-1")
	v.SetDefault("openai.completion_model", "gpt-4o")
	v.SetDefault("openai.system_prompt", "You are a helpful assistant.")
	v.SetDefault("local.whisper_endpoint", "http://localhost:8000/v1/audio/transcriptions")
	v.SetDefault("local.llm_endpoint", "http://localhost:11434/api/generate")
	v.SetDefault("local.llm_model", "llama3")
	v.SetDefault("local.language", "en")
	v.SetDefault("piper.endpoint", "localhost:10200")
	v.SetDefault("stability.base_url", "https://api.stability.ai")
	v.SetDefault("stability.api_key", "${STABILITY_API_KEY}")
	v.SetDefault("stability.engine", "stable-diffusion-v1-6")
	v.SetDefault("stability.image_strength", 0.35)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate rejects backend names no adapter implements.
func (c *Config) Validate() error {
	checks := []struct {
		key, val string
		allowed  []string
	}{
		{"chat.backend", c.Chat.Backend, []string{"", "openai", "local"}},
		{"stt.backend", c.STT.Backend, []string{"", "google", "whisper"}},
		{"tts.backend", c.TTS.Backend, []string{"", "google", "piper"}},
		{"vision.labels", c.Vision.Labels, []string{"", "google"}},
		{"vision.captions", c.Vision.Captions, []string{"", "azure"}},
		{"language.backend", c.Language.Backend, []string{"", "comprehend"}},
		{"diffusion.backend", c.Diffusion.Backend, []string{"", "stability"}},
		{"storage.backend", c.Storage.Backend, []string{"local", "s3"}},
	}
	for _, chk := range checks {
		ok := false
		for _, a := range chk.allowed {
			if chk.val == a {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("invalid %s %q", chk.key, chk.val)
		}
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		return os.Getenv(envKey)
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
