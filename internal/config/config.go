// Package config loads server settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"gel-labeler/internal/label"
	"gel-labeler/pkg/colorutil"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned when a setting is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Renderer names.
const (
	RendererFont   = "font"
	RendererOpenCV = "opencv"
)

// Config holds the web server settings.
type Config struct {
	Addr            string        `env:"GEL_ADDR" envDefault:":8080"`
	Renderer        string        `env:"GEL_RENDERER" envDefault:"font"`
	MaxRows         int           `env:"GEL_MAX_ROWS" envDefault:"8"`
	MaxUploadMB     int64         `env:"GEL_MAX_UPLOAD_MB" envDefault:"20"`
	LogFormat       string        `env:"GEL_LOG_FORMAT" envDefault:"text"`
	LogLevel        string        `env:"GEL_LOG_LEVEL" envDefault:"info"`
	LabelColor      string        `env:"GEL_LABEL_COLOR" envDefault:"red"`
	LabelScale      float64       `env:"GEL_LABEL_SCALE" envDefault:"0.5"`
	LabelThickness  int           `env:"GEL_LABEL_THICKNESS" envDefault:"2"`
	LabelOffsetX    int           `env:"GEL_LABEL_OFFSET_X" envDefault:"20"`
	ReadTimeout     time.Duration `env:"GEL_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"GEL_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"GEL_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load reads the given .env files (or ./.env when none are named), then
// parses the environment. Missing .env files are ignored; variables
// already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("failed to load env files: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	switch c.Renderer {
	case RendererFont, RendererOpenCV:
	default:
		return fmt.Errorf("%w: GEL_RENDERER %q (want %q or %q)", ErrInvalidConfig, c.Renderer, RendererFont, RendererOpenCV)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: GEL_LOG_FORMAT %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.MaxRows < 1 {
		return fmt.Errorf("%w: GEL_MAX_ROWS must be positive", ErrInvalidConfig)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("%w: GEL_MAX_UPLOAD_MB must be positive", ErrInvalidConfig)
	}
	if c.LabelScale <= 0 {
		return fmt.Errorf("%w: GEL_LABEL_SCALE must be positive", ErrInvalidConfig)
	}
	if c.LabelThickness < 1 {
		return fmt.Errorf("%w: GEL_LABEL_THICKNESS must be at least 1", ErrInvalidConfig)
	}
	if _, err := colorutil.Parse(c.LabelColor); err != nil {
		return fmt.Errorf("%w: GEL_LABEL_COLOR: %v", ErrInvalidConfig, err)
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: GEL_LOG_LEVEL %q", ErrInvalidConfig, c.LogLevel)
	}
	return lvl, nil
}

// Style returns the label style described by the config.
func (c Config) Style() label.Style {
	var col color.RGBA = colorutil.Red
	if parsed, err := colorutil.Parse(c.LabelColor); err == nil {
		col = parsed
	}
	return label.Style{
		Scale:     c.LabelScale,
		Color:     col,
		Thickness: c.LabelThickness,
		OffsetX:   c.LabelOffsetX,
	}
}
