package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Sheets    SheetsConfig
	Pipeline  PipelineConfig
	Reporting ReportingConfig
	WhatsApp  WhatsAppConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// SheetsConfig contains configuration required to read the event spreadsheets.
type SheetsConfig struct {
	CredentialsPath      string
	CurrentSpreadsheetID string
	CurrentRange         string
	LegacySpreadsheetID  string
	LegacyRange          string

	// LegacyCSVURL is a published CSV export used when the legacy sheet is
	// not shared with the service account.
	LegacyCSVURL string
}

// HasLegacy reports whether any legacy source is configured.
func (s SheetsConfig) HasLegacy() bool {
	return s.LegacySpreadsheetID != "" || s.LegacyCSVURL != ""
}

// PipelineConfig tunes dataset construction.
type PipelineConfig struct {
	LocaleChain        []string
	PlaceholderDays    int
	MinYear            int
	LegacyVenue        string
	MenuVocabularyPath string
	CacheTTL           time.Duration
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	RefreshSchedule   string
	SummarySchedule   string
	SummaryMonthsBack int
	Timezone          string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API used
// to deliver the monthly summary. It is optional.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	Recipient     string
}

// Enabled reports whether the notifier is configured.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != "" && w.Recipient != ""
}

// MongoDBConfig holds settings for the optional report archive.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether the archive is configured.
func (m MongoDBConfig) Enabled() bool {
	return m.URI != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	placeholderDays, err := getenvInt("PLACEHOLDER_DAYS", 20)
	if err != nil {
		return nil, err
	}
	minYear, err := getenvInt("MIN_YEAR", 2022)
	if err != nil {
		return nil, err
	}
	monthsBack, err := getenvInt("SUMMARY_MONTHS_BACK", 1)
	if err != nil {
		return nil, err
	}
	ttl, err := getenvDuration("DATASET_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Sheets: SheetsConfig{
			CredentialsPath:      os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			CurrentSpreadsheetID: os.Getenv("GOOGLE_SHEET_EVENTS_ID"),
			CurrentRange:         getenvWithDefault("GOOGLE_SHEET_EVENTS_RANGE", "Completa"),
			LegacySpreadsheetID:  os.Getenv("GOOGLE_SHEET_LEGACY_ID"),
			LegacyRange:          getenvWithDefault("GOOGLE_SHEET_LEGACY_RANGE", "Sheet1"),
			LegacyCSVURL:         os.Getenv("LEGACY_CSV_URL"),
		},
		Pipeline: PipelineConfig{
			LocaleChain:        splitList(getenvWithDefault("LOCALE", "pt_BR.UTF-8,C.UTF-8,C")),
			PlaceholderDays:    placeholderDays,
			MinYear:            minYear,
			LegacyVenue:        getenvWithDefault("LEGACY_VENUE", "Thai House"),
			MenuVocabularyPath: os.Getenv("MENU_VOCABULARY_PATH"),
			CacheTTL:           ttl,
		},
		Reporting: ReportingConfig{
			RefreshSchedule:   getenvWithDefault("REFRESH_CRON_SCHEDULE", "*/10 * * * *"),
			SummarySchedule:   getenvWithDefault("REPORT_CRON_SCHEDULE", "0 9 1 * *"),
			SummaryMonthsBack: monthsBack,
			Timezone:          getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			Recipient:     os.Getenv("WHATSAPP_REPORT_RECIPIENT"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "eventdash"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
	}
	if c.Sheets.CurrentSpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_EVENTS_ID must be provided")
	}
	if c.Sheets.CurrentRange == "" {
		return errors.New("GOOGLE_SHEET_EVENTS_RANGE must not be empty")
	}
	if c.Sheets.LegacySpreadsheetID != "" && c.Sheets.LegacyRange == "" {
		return errors.New("GOOGLE_SHEET_LEGACY_RANGE must not be empty")
	}

	if len(c.Pipeline.LocaleChain) == 0 {
		return errors.New("LOCALE must list at least one locale")
	}
	if c.Pipeline.PlaceholderDays < 0 {
		return errors.New("PLACEHOLDER_DAYS must not be negative")
	}
	if c.Pipeline.CacheTTL <= 0 {
		return errors.New("DATASET_CACHE_TTL must be positive")
	}

	switch {
	case c.Reporting.RefreshSchedule == "":
		return errors.New("REFRESH_CRON_SCHEDULE must be provided")
	case c.Reporting.SummarySchedule == "":
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	case c.Reporting.Timezone == "":
		return errors.New("TIMEZONE must be provided")
	case c.Reporting.SummaryMonthsBack < 0:
		return errors.New("SUMMARY_MONTHS_BACK must not be negative")
	}

	partialWhatsApp := c.WhatsApp.AccessToken != "" || c.WhatsApp.PhoneNumberID != "" || c.WhatsApp.Recipient != ""
	if partialWhatsApp && !c.WhatsApp.Enabled() {
		return errors.New("WHATSAPP_TOKEN, WHATSAPP_PHONE_NUMBER_ID and WHATSAPP_REPORT_RECIPIENT must be provided together")
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
