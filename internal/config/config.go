package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	S3         S3Config
	Log        LogConfig
	Classifier ClassifierConfig
	OCR        OCRConfig
	Analysis   AnalysisConfig
	Queue      QueueConfig
	Batch      BatchConfig
	CORS       CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds object storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClassifierConfig holds pipeline routing thresholds.
type ClassifierConfig struct {
	HybridThreshold     float64 `mapstructure:"hybrid_threshold"`
	OCROverTextThreshold float64 `mapstructure:"ocr_over_text_threshold"`
}

// OCRConfig holds Tesseract settings for the OCR extraction strategy.
type OCRConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	Languages     string  `mapstructure:"languages"`
	MinConfidence float64 `mapstructure:"min_confidence"`
	PageSegMode   int     `mapstructure:"page_seg_mode"`
}

// AnalysisConfig holds context analysis toggles and caps.
type AnalysisConfig struct {
	EnableEntities      bool    `mapstructure:"enable_entities"`
	EnableRelationships bool    `mapstructure:"enable_relationships"`
	EnableSemantics     bool    `mapstructure:"enable_semantics"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	MaxEntities         int     `mapstructure:"max_entities"`
	MaxRelationships    int     `mapstructure:"max_relationships"`
}

// QueueConfig holds processing queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// BatchConfig holds batch processor settings.
type BatchConfig struct {
	PoolSize int `mapstructure:"pool_size"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the METASTITCH_
// prefix. If METASTITCH_CONFIG_FILE points at a YAML file (e.g. a
// pipeline_config.yaml), its values are merged in below the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("METASTITCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "metastitch")
	v.SetDefault("db.password", "metastitch_secret")
	v.SetDefault("db.name", "metastitch_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "metastitch-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Classifier defaults (routing thresholds)
	v.SetDefault("classifier.hybrid_threshold", 0.7)
	v.SetDefault("classifier.ocr_over_text_threshold", 0.8)

	// OCR defaults
	v.SetDefault("ocr.enabled", true)
	v.SetDefault("ocr.languages", "eng")
	v.SetDefault("ocr.min_confidence", 0.3)
	v.SetDefault("ocr.page_seg_mode", 3)

	// Analysis defaults
	v.SetDefault("analysis.enable_entities", true)
	v.SetDefault("analysis.enable_relationships", true)
	v.SetDefault("analysis.enable_semantics", true)
	v.SetDefault("analysis.confidence_threshold", 0.7)
	v.SetDefault("analysis.max_entities", 1000)
	v.SetDefault("analysis.max_relationships", 500)

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.concurrency", 5)

	// Batch defaults
	v.SetDefault("batch.pool_size", 4)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "METASTITCH_SERVER_PORT",
		"server.read_timeout":            "METASTITCH_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "METASTITCH_SERVER_WRITE_TIMEOUT",
		"server.environment":             "METASTITCH_SERVER_ENVIRONMENT",
		"db.host":                        "METASTITCH_DB_HOST",
		"db.port":                        "METASTITCH_DB_PORT",
		"db.user":                        "METASTITCH_DB_USER",
		"db.password":                    "METASTITCH_DB_PASSWORD",
		"db.name":                        "METASTITCH_DB_NAME",
		"db.sslmode":                     "METASTITCH_DB_SSLMODE",
		"db.max_open":                    "METASTITCH_DB_MAX_OPEN",
		"db.max_idle":                    "METASTITCH_DB_MAX_IDLE",
		"s3.region":                      "METASTITCH_S3_REGION",
		"s3.bucket":                      "METASTITCH_S3_BUCKET",
		"s3.endpoint":                    "METASTITCH_S3_ENDPOINT",
		"s3.access_key":                  "METASTITCH_S3_ACCESS_KEY",
		"s3.secret_key":                  "METASTITCH_S3_SECRET_KEY",
		"s3.max_file_size_mb":            "METASTITCH_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":              "METASTITCH_S3_PRESIGN_EXPIRY",
		"log.level":                      "METASTITCH_LOG_LEVEL",
		"log.format":                     "METASTITCH_LOG_FORMAT",
		"classifier.hybrid_threshold":    "METASTITCH_CLASSIFIER_HYBRID_THRESHOLD",
		"classifier.ocr_over_text_threshold": "METASTITCH_CLASSIFIER_OCR_OVER_TEXT_THRESHOLD",
		"ocr.enabled":                    "METASTITCH_OCR_ENABLED",
		"ocr.languages":                  "METASTITCH_OCR_LANGUAGES",
		"ocr.min_confidence":             "METASTITCH_OCR_MIN_CONFIDENCE",
		"ocr.page_seg_mode":              "METASTITCH_OCR_PAGE_SEG_MODE",
		"analysis.enable_entities":       "METASTITCH_ANALYSIS_ENABLE_ENTITIES",
		"analysis.enable_relationships":  "METASTITCH_ANALYSIS_ENABLE_RELATIONSHIPS",
		"analysis.enable_semantics":      "METASTITCH_ANALYSIS_ENABLE_SEMANTICS",
		"analysis.confidence_threshold":  "METASTITCH_ANALYSIS_CONFIDENCE_THRESHOLD",
		"analysis.max_entities":          "METASTITCH_ANALYSIS_MAX_ENTITIES",
		"analysis.max_relationships":     "METASTITCH_ANALYSIS_MAX_RELATIONSHIPS",
		"queue.poll_interval_secs":       "METASTITCH_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":              "METASTITCH_QUEUE_MAX_RETRIES",
		"queue.concurrency":              "METASTITCH_QUEUE_CONCURRENCY",
		"batch.pool_size":                "METASTITCH_BATCH_POOL_SIZE",
		"cors.allowed_origins":           "METASTITCH_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	// Optional YAML config file (pipeline/model settings)
	if cfgFile := os.Getenv("METASTITCH_CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if METASTITCH_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("METASTITCH_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Classifier = ClassifierConfig{
		HybridThreshold:      v.GetFloat64("classifier.hybrid_threshold"),
		OCROverTextThreshold: v.GetFloat64("classifier.ocr_over_text_threshold"),
	}
	cfg.OCR = OCRConfig{
		Enabled:       v.GetBool("ocr.enabled"),
		Languages:     v.GetString("ocr.languages"),
		MinConfidence: v.GetFloat64("ocr.min_confidence"),
		PageSegMode:   v.GetInt("ocr.page_seg_mode"),
	}
	cfg.Analysis = AnalysisConfig{
		EnableEntities:      v.GetBool("analysis.enable_entities"),
		EnableRelationships: v.GetBool("analysis.enable_relationships"),
		EnableSemantics:     v.GetBool("analysis.enable_semantics"),
		ConfidenceThreshold: v.GetFloat64("analysis.confidence_threshold"),
		MaxEntities:         v.GetInt("analysis.max_entities"),
		MaxRelationships:    v.GetInt("analysis.max_relationships"),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Batch = BatchConfig{
		PoolSize: v.GetInt("batch.pool_size"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}
