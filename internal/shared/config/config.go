package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	DatabaseURL string
	SQLitePath  string

	UploadDir string

	LLMProvider  string
	LLMModel     string
	GroqAPIKey   string
	GeminiAPIKey string

	TesseractBin  string
	PdftoppmBin   string
	TesseractLang string
	OCRDPI        int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of a local .env for dev convenience.
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded .env")
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	return Config{
		Port:            getEnv("PORT", "8000"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:8501")),
		DatabaseURL:     dbURL,
		SQLitePath:      getEnv("SQLITE_PATH", "medidoc.db"),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		LLMProvider:     normalizeProvider(getEnv("LLM_PROVIDER", "groq")),
		LLMModel:        getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		TesseractBin:    getEnv("TESSERACT_BIN", "tesseract"),
		PdftoppmBin:     getEnv("PDFTOPPM_BIN", "pdftoppm"),
		TesseractLang:   getEnv("TESSERACT_LANG", "eng"),
		OCRDPI:          getEnvInt("OCR_DPI", 300),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config env %s invalid int, using default %d", key, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini":
		return "gemini"
	default:
		return "groq"
	}
}
