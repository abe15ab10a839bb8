package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port     string
	Timezone string
	DBPath   string

	AIProvider     string // auto|claude|openai|mock|none
	ClaudeAPIKey   string
	ClaudeModel    string
	ClaudeEndpoint string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIEndpoint string
	AITimeout      time.Duration

	EmbEndpoint string
	EmbAPIKey   string
	EmbModel    string

	SpeciesCSV  string
	SpeciesXLSX string

	GuideAllowedDomains []string
	GuideMaxBytes       int

	BulkLimit   int
	RequireUser bool
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}
	cfg := FromEnv(os.Getenv)
	log.Printf("[cfg] %+v", cfg.Redacted())
	return cfg
}

// FromEnv builds the config from a lookup function.
func FromEnv(getenv func(string) string) AppConfig {
	get := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}
	getInt := func(k string, def int) int {
		n, err := strconv.Atoi(get(k, ""))
		if err != nil || n <= 0 {
			return def
		}
		return n
	}

	var domains []string
	for _, h := range strings.Split(get("GUIDE_ALLOWED_DOMAINS", ""), ",") {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			domains = append(domains, h)
		}
	}

	return AppConfig{
		Port:     get("PORT", "8080"),
		Timezone: get("TZ", "UTC"),
		DBPath:   get("DB_PATH", "plantcare.db"),

		AIProvider:     strings.ToLower(get("AI_PROVIDER", "auto")),
		ClaudeAPIKey:   get("CLAUDE_API_KEY", ""),
		ClaudeModel:    get("CLAUDE_MODEL", "claude-sonnet-4-20250514"),
		ClaudeEndpoint: get("CLAUDE_ENDPOINT", "https://api.anthropic.com"),
		OpenAIAPIKey:   get("OPENAI_API_KEY", ""),
		OpenAIModel:    get("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIEndpoint: get("OPENAI_ENDPOINT", "https://api.openai.com"),
		AITimeout:      time.Duration(getInt("AI_TIMEOUT_SEC", 25)) * time.Second,

		EmbEndpoint: get("EMB_ENDPOINT", ""),
		EmbAPIKey:   get("EMB_API_KEY", ""),
		EmbModel:    get("EMB_MODEL", "text-embedding-3-small"),

		SpeciesCSV:  get("SPECIES_CSV", ""),
		SpeciesXLSX: get("SPECIES_XLSX", ""),

		GuideAllowedDomains: domains,
		GuideMaxBytes:       getInt("GUIDE_MAX_BYTES_PER_PAGE", 1500000),

		BulkLimit:   getInt("BULK_LIMIT", 50),
		RequireUser: get("REQUIRE_USER", "false") == "true",
	}
}

// Redacted masks secrets for logging.
func (c AppConfig) Redacted() AppConfig {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	c.ClaudeAPIKey = mask(c.ClaudeAPIKey)
	c.OpenAIAPIKey = mask(c.OpenAIAPIKey)
	c.EmbAPIKey = mask(c.EmbAPIKey)
	return c
}

// Location resolves Timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[cfg] bad TZ %q: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}
