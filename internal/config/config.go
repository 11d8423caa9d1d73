package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Embedding   EmbeddingConfig
	Database    DatabaseConfig
	Recognition RecognitionConfig
	Capture     CaptureConfig
	Attendance  AttendanceConfig
	Match       MatchConfig
}

type EmbeddingConfig struct {
	URL   string // face model service base URL, defaults to http://localhost:8000
	Model string // model name for reference only
	Dim   int    // embedding dimension, defaults to 512
}

type DatabaseConfig struct {
	Driver       string // "postgres" (default), "mysql" or "memory"
	URL          string // connection URL / DSN
	MaxOpenConns int    // maximum open connections (default 25)
	MaxIdleConns int    // maximum idle connections (default 5)
}

type RecognitionConfig struct {
	Threshold    float64 `yaml:"threshold"`     // minimum cosine similarity for a match
	MinFaceSize  int     `yaml:"min_face_size"` // minimum face size in pixels for detection
	MaxFaceSize  int     `yaml:"max_face_size"` // maximum face size for processing
	MaxImageSize int     `yaml:"max_image_size"`
}

type CaptureConfig struct {
	DurationMs  int `yaml:"duration_ms"` // registration capture duration
	FPS         int `yaml:"fps"`         // frame capture rate during registration
	VideoWidth  int `yaml:"video_width"`
	VideoHeight int `yaml:"video_height"`
}

type AttendanceConfig struct {
	Timezone string // IANA zone for attendance day boundaries, defaults to Local
}

type MatchConfig struct {
	UseIndex bool // route searches through the in-memory HNSW index
}

// defaultsFile mirrors the structure of the embedded defaults.yaml.
type defaultsFile struct {
	Recognition RecognitionConfig `yaml:"recognition"`
	Capture     CaptureConfig     `yaml:"capture"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a float in (0, 1].
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f <= 1 {
		return f
	}
	return defaultVal
}

// envString reads an environment variable with a default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var defaults defaultsFile
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// This is an embedded file so this error should never happen in practice.
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Embedding: EmbeddingConfig{
			URL:   os.Getenv("EMBEDDING_URL"),
			Model: os.Getenv("EMBEDDING_MODEL"),
			Dim:   envInt("EMBEDDING_DIM", 512),
		},
		Database: DatabaseConfig{
			Driver:       envString("DATABASE_DRIVER", "postgres"),
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Recognition: RecognitionConfig{
			Threshold:    envFloat("RECOGNITION_THRESHOLD", defaults.Recognition.Threshold),
			MinFaceSize:  defaults.Recognition.MinFaceSize,
			MaxFaceSize:  defaults.Recognition.MaxFaceSize,
			MaxImageSize: defaults.Recognition.MaxImageSize,
		},
		Capture: defaults.Capture,
		Attendance: AttendanceConfig{
			Timezone: os.Getenv("ATTENDANCE_TIMEZONE"),
		},
		Match: MatchConfig{
			UseIndex: os.Getenv("MATCH_USE_INDEX") == "true",
		},
	}
}

// Location resolves the configured attendance time zone.
// An empty setting means the system's local zone.
func (c *AttendanceConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
