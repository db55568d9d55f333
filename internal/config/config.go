package config

import (
	"os"
	"strconv"

	"beaunifi/internal/detect"
	"beaunifi/internal/model"
	"beaunifi/internal/transform"
)

// TransformConfig holds defaults for the beautifier.
type TransformConfig struct {
	IndentSize int
}

// DetectConfig holds the classifier thresholds per language. Every
// threshold is overridable from the environment so the scoring rule stays
// auditable and tunable without a rebuild.
type DetectConfig struct {
	JS  detect.Thresholds
	CSS detect.Thresholds
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables.
type AppConfig struct {
	AppHost   string
	Port      string
	Transform TransformConfig
	Detect    DetectConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Transform: TransformConfig{
			IndentSize: getEnvInt("INDENT_SIZE", transform.DefaultIndentSize),
		},
		Detect: DetectConfig{
			JS:  loadThresholds("JS", detect.DefaultThresholds(model.LangJS)),
			CSS: loadThresholds("CSS", detect.DefaultThresholds(model.LangCSS)),
		},
	}
}

// loadThresholds overlays environment overrides onto the per-language
// defaults. Variables are named DETECT_<LANG>_<KNOB>.
func loadThresholds(lang string, def detect.Thresholds) detect.Thresholds {
	prefix := "DETECT_" + lang + "_"
	return detect.Thresholds{
		MinLength:          getEnvInt(prefix+"MIN_LENGTH", def.MinLength),
		LongLine:           getEnvInt(prefix+"LONG_LINE", def.LongLine),
		LowWhitespaceRatio: getEnvFloat(prefix+"LOW_WHITESPACE_RATIO", def.LowWhitespaceRatio),
		FewLines:           getEnvInt(prefix+"FEW_LINES", def.FewLines),
		FewLinesMinLength:  getEnvInt(prefix+"FEW_LINES_MIN_LENGTH", def.FewLinesMinLength),
		IndentedLineRatio:  getEnvFloat(prefix+"INDENTED_LINE_RATIO", def.IndentedLineRatio),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
