package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	OCR       OCRConfig
	Model     ModelConfig
	Translate TranslateConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr          string
	BodyLimit     int
	RequestLogger bool
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract     string
	TesseractLang string
	Timeout       time.Duration
}

// ModelConfig holds the remote completion service configuration.
// Endpoint and model name are fixed at startup and read-only afterwards.
type ModelConfig struct {
	Endpoint    string
	Model       string
	Temperature float32
	NumPredict  int
	Timeout     time.Duration
}

// TranslateConfig holds translation service configuration
type TranslateConfig struct {
	Endpoint   string
	TargetLang string
	Timeout    time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":" + getEnv("PORT", "8080"),
			BodyLimit:     getEnvAsInt("MAX_UPLOAD_BYTES", 16<<20),
			RequestLogger: getEnvAsBool("REQUEST_LOGGER", true),
		},
		OCR: OCRConfig{
			Tesseract:     getEnv("TESSERACT_PATH", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			Timeout:       getEnvAsDuration("OCR_TIMEOUT", 60*time.Second),
		},
		Model: ModelConfig{
			Endpoint:    getEnv("OLLAMA_ENDPOINT", "http://localhost:11434/api/generate"),
			Model:       getEnv("OLLAMA_MODEL", "deepseek-r1:14b"),
			Temperature: getEnvAsFloat32("OLLAMA_TEMPERATURE", 0.7),
			NumPredict:  getEnvAsInt("OLLAMA_NUM_PREDICT", 2000),
			Timeout:     getEnvAsDuration("OLLAMA_TIMEOUT", 120*time.Second),
		},
		Translate: TranslateConfig{
			Endpoint:   getEnv("TRANSLATE_ENDPOINT", "https://translate.googleapis.com/translate_a/single"),
			TargetLang: getEnv("TRANSLATE_TARGET_LANG", "bn"),
			Timeout:    getEnvAsDuration("TRANSLATE_TIMEOUT", 10*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Model.Endpoint == "" {
		return NewAppError("CONFIG_ERROR", "OLLAMA_ENDPOINT is required", ErrInvalidInput)
	}
	if c.Model.Model == "" {
		return NewAppError("CONFIG_ERROR", "OLLAMA_MODEL is required", ErrInvalidInput)
	}
	if c.Translate.TargetLang == "" {
		return NewAppError("CONFIG_ERROR", "TRANSLATE_TARGET_LANG is required", ErrInvalidInput)
	}
	if c.Server.Addr == ":" {
		return NewAppError("CONFIG_ERROR", "PORT is required", ErrInvalidInput)
	}
	return nil
}
