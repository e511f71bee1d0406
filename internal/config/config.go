package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvPrefix            = "LIDARCMAP_"
	ConstantEnvFile      = ".env"
	DefaultLogLevel      = "info"
	DefaultFormat        = "webp"
	DefaultQuality       = 90
	DefaultCellSize      = 24
	DefaultColorbarWidth = 24
	DefaultOutputDir     = "."

	// Panel data of the example gallery.
	GallerySeed = 42
	GalleryRows = 10
	GalleryCols = 10
)

type Config struct {
	InputFile  string
	OutputFile string
	OutputDir  string
	Database   string
	ColorMap   string
	Format     string
	Quality    int
	CellSize   int
	NumWorkers int
	LogLevel   string
	Verbose    bool
}

// Load applies an optional dotenv file and LIDARCMAP_* environment variables
// on top of the defaults. A missing env file is not an error.
func Load(envFile string) *Config {
	if envFile == "" {
		envFile = ConstantEnvFile
	}
	_ = godotenv.Load(envFile)

	return &Config{
		OutputDir:  getEnv("OUTPUT_DIR", DefaultOutputDir),
		Format:     getEnv("FORMAT", DefaultFormat),
		Quality:    getEnvInt("QUALITY", DefaultQuality),
		CellSize:   getEnvInt("CELL_SIZE", DefaultCellSize),
		NumWorkers: getEnvInt("WORKERS", runtime.NumCPU()),
		LogLevel:   getEnv("LOG_LEVEL", DefaultLogLevel),
		Verbose:    getEnvBool("VERBOSE", false),
	}
}

func (c *Config) Validate() error {
	switch c.Format {
	case "webp", "png":
	default:
		return fmt.Errorf("unsupported image format %q (want webp or png)", c.Format)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality %d out of range 1-100", c.Quality)
	}
	if c.CellSize < 1 {
		return fmt.Errorf("cell size must be positive, got %d", c.CellSize)
	}
	if c.NumWorkers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.NumWorkers)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a configured level name onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(EnvPrefix + key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(EnvPrefix + key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(EnvPrefix + key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
