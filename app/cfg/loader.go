package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	CategoriesFile string `long:"categories-file" env:"CATEGORIES_FILE" default:"./categories.yml" description:"YAML file listing news categories and their feed URLs"`

	// Generation API configuration
	GeminiAPIKey string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Generative Language API key"`
	GoogleAPIKey string `long:"google-api-key" env:"GOOGLE_API_KEY" description:"Fallback API key, used when GEMINI_API_KEY is not set"`
	GeminiModel  string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.5-flash" description:"Generation model identifier"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0" description:"User agent string for feed requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Tokyo)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:           raw.Port,
		CategoriesFile: raw.CategoriesFile,
		GeminiAPIKey:   raw.GeminiAPIKey,
		GoogleAPIKey:   raw.GoogleAPIKey,
		GeminiModel:    raw.GeminiModel,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
