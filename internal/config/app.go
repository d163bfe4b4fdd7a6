package config

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	API    APIConfig
	Server ServerConfig
	Media  MediaConfig
}

// APIConfig описывает подключение к backend AI endpoints
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ServerConfig struct {
	MetricsPort  int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MediaConfig содержит пути для файловых реализаций захвата (dev-режим)
type MediaConfig struct {
	AudioSamplePath string
	CameraImagePath string
	PlaybackDir     string
}

func LoadAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", ""),
			Timeout: getEnvAsDuration("API_TIMEOUT", 60*time.Second),
		},
		Server: ServerConfig{
			MetricsPort:  getEnvAsInt("METRICS_PORT", 9090),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Media: MediaConfig{
			AudioSamplePath: getEnv("MEDIA_AUDIO_SAMPLE", "samples/answer.webm"),
			CameraImagePath: getEnv("MEDIA_CAMERA_IMAGE", "samples/frame.png"),
			PlaybackDir:     getEnv("MEDIA_PLAYBACK_DIR", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
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
