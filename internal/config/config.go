package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/fixture-results/internal/platform/logging"
)

const (
	FeedModeDay         = "day"
	FeedModeCompetition = "competition"

	TieBreakFirst   = "first"
	TieBreakNearest = "nearest"

	dateLayout = "2006-01-02"
)

// Config stores runtime configuration for one reconciliation run.
type Config struct {
	AppEnv                        string `validate:"oneof=dev stage prod"`
	ServiceName                   string `validate:"required"`
	ServiceVersion                string
	DBURL                         string `validate:"required"`
	DBDisablePreparedBinary       bool
	SportAPIBaseURL               string `validate:"required,url"`
	SportAPIHost                  string `validate:"required,hostname"`
	SportAPIKey                   string `validate:"required"`
	SportAPITimeout               time.Duration
	SportAPIMaxRetries            int    `validate:"gte=0,lte=5"`
	SportAPICircuitEnabled        bool
	SportAPICircuitFailureCount   int    `validate:"gte=1"`
	SportAPICircuitOpenTimeout    time.Duration
	SportAPICircuitHalfOpenMaxReq int    `validate:"gte=1"`
	TournamentID                  string `validate:"required"`
	FeedMode                      string `validate:"oneof=day competition"`
	StartDate                     time.Time
	EndDate                       time.Time
	MatchToleranceDays            int    `validate:"gte=0,lte=31"`
	MatchTieBreak                 string `validate:"oneof=first nearest"`
	CandidateCutoffMargin         time.Duration
	DryRun                        bool
	RawPayloadArchiveEnabled      bool
	UptraceEnabled                bool
	UptraceDSN                    string `validate:"required_if=UptraceEnabled true"`
	LogLevel                      logging.Level
}

func Load() (Config, error) {
	// A missing .env is the normal case in deployed environments.
	_ = godotenv.Load()
	return load(time.Now().UTC())
}

func load(now time.Time) (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	sportAPITimeout, err := time.ParseDuration(getEnv("SPORTAPI_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTAPI_TIMEOUT: %w", err)
	}
	if sportAPITimeout <= 0 {
		return Config{}, fmt.Errorf("SPORTAPI_TIMEOUT must be > 0")
	}
	sportAPIMaxRetries, err := getEnvAsInt("SPORTAPI_MAX_RETRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTAPI_MAX_RETRIES: %w", err)
	}
	sportAPICircuitEnabled, err := strconv.ParseBool(getEnv("SPORTAPI_CIRCUIT_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTAPI_CIRCUIT_ENABLED: %w", err)
	}
	sportAPICircuitFailureCount, err := getEnvAsInt("SPORTAPI_CIRCUIT_FAILURE_COUNT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTAPI_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	sportAPICircuitOpenTimeout, err := time.ParseDuration(getEnv("SPORTAPI_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTAPI_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if sportAPICircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SPORTAPI_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	sportAPICircuitHalfOpenMaxReq, err := getEnvAsInt("SPORTAPI_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTAPI_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	toleranceDays, err := getEnvAsInt("MATCH_TOLERANCE_DAYS", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_TOLERANCE_DAYS: %w", err)
	}
	cutoffMargin, err := time.ParseDuration(getEnv("CANDIDATE_CUTOFF_MARGIN", "3h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CANDIDATE_CUTOFF_MARGIN: %w", err)
	}
	if cutoffMargin < 0 {
		return Config{}, fmt.Errorf("CANDIDATE_CUTOFF_MARGIN must be >= 0")
	}

	startDate, endDate, err := resolveDateRange(now)
	if err != nil {
		return Config{}, err
	}

	dryRun, err := strconv.ParseBool(getEnv("DRY_RUN", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DRY_RUN: %w", err)
	}
	rawPayloadArchiveEnabled, err := strconv.ParseBool(getEnv("RAW_PAYLOAD_ARCHIVE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RAW_PAYLOAD_ARCHIVE_ENABLED: %w", err)
	}
	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	cfg := Config{
		AppEnv:                        appEnv,
		ServiceName:                   getEnv("APP_SERVICE_NAME", "fixture-results"),
		ServiceVersion:                getEnv("APP_SERVICE_VERSION", "dev"),
		DBURL:                         strings.TrimSpace(getEnv("DATABASE_URL", getEnv("DB_URL", ""))),
		DBDisablePreparedBinary:       dbDisablePreparedBinary,
		SportAPIBaseURL:               strings.TrimRight(strings.TrimSpace(getEnv("SPORTAPI_BASE_URL", "https://sportapi7.p.rapidapi.com")), "/"),
		SportAPIHost:                  strings.TrimSpace(getEnv("SPORTAPI_HOST", "sportapi7.p.rapidapi.com")),
		SportAPIKey:                   strings.TrimSpace(getEnv("SPORTAPI_KEY", "")),
		SportAPITimeout:               sportAPITimeout,
		SportAPIMaxRetries:            sportAPIMaxRetries,
		SportAPICircuitEnabled:        sportAPICircuitEnabled,
		SportAPICircuitFailureCount:   sportAPICircuitFailureCount,
		SportAPICircuitOpenTimeout:    sportAPICircuitOpenTimeout,
		SportAPICircuitHalfOpenMaxReq: sportAPICircuitHalfOpenMaxReq,
		TournamentID:                  strings.TrimSpace(getEnv("TOURNAMENT_ID", "")),
		FeedMode:                      strings.ToLower(strings.TrimSpace(getEnv("FEED_MODE", FeedModeDay))),
		StartDate:                     startDate,
		EndDate:                       endDate,
		MatchToleranceDays:            toleranceDays,
		MatchTieBreak:                 strings.ToLower(strings.TrimSpace(getEnv("MATCH_TIE_BREAK", TieBreakFirst))),
		CandidateCutoffMargin:         cutoffMargin,
		DryRun:                        dryRun,
		RawPayloadArchiveEnabled:      rawPayloadArchiveEnabled,
		UptraceEnabled:                uptraceEnabled,
		UptraceDSN:                    strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		LogLevel:                      parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// resolveDateRange returns the inclusive UTC day range to reconcile. An
// explicit RESULTS_START_DATE/RESULTS_END_DATE pair wins over the look-back window.
func resolveDateRange(now time.Time) (time.Time, time.Time, error) {
	rawStart := strings.TrimSpace(getEnv("RESULTS_START_DATE", ""))
	rawEnd := strings.TrimSpace(getEnv("RESULTS_END_DATE", ""))

	if rawStart == "" && rawEnd == "" {
		lookback, err := getEnvAsInt("RESULTS_LOOKBACK_DAYS", 3)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse RESULTS_LOOKBACK_DAYS: %w", err)
		}
		if lookback < 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("RESULTS_LOOKBACK_DAYS must be >= 0")
		}
		end := truncateDay(now)
		return end.AddDate(0, 0, -lookback), end, nil
	}
	if rawStart == "" || rawEnd == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("RESULTS_START_DATE and RESULTS_END_DATE must be set together")
	}

	start, err := time.Parse(dateLayout, rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse RESULTS_START_DATE: %w", err)
	}
	end, err := time.Parse(dateLayout, rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse RESULTS_END_DATE: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("RESULTS_END_DATE %s is before RESULTS_START_DATE %s", rawEnd, rawStart)
	}

	return start, end, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
