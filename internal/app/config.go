// Package app holds process-level configuration loaded from the environment.
package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr       string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
	UserAgent      string

	OMDBAPIKey   string
	OMDBEndpoint string
	OMDBTimeout  time.Duration

	ArchiveSearchEndpoint   string
	ArchiveMetadataEndpoint string
	ArchiveDownloadBase     string
	ArchiveDetailsBase      string
	ArchiveRows             int
	ArchiveSearchTimeout    time.Duration
	ArchiveMetadataTimeout  time.Duration

	PexelsAPIKey   string
	PexelsEndpoint string
	PexelsPerPage  int
	PexelsTimeout  time.Duration

	VerifyTimeout       time.Duration
	SimilarityThreshold int
	MaxItems            int
	MaxAssetsPerItem    int

	TelegramToken string
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8090"),
		RequestTimeout: time.Duration(getEnvInt("SEARCH_TIMEOUT_SECONDS", 25)) * time.Second,
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "text")),
		UserAgent:      getEnv("SEARCH_USER_AGENT", "moviesearch/1.1 (+https://archive.org)"),

		OMDBAPIKey:   strings.TrimSpace(os.Getenv("OMDB_API_KEY")),
		OMDBEndpoint: getEnv("OMDB_ENDPOINT", "https://www.omdbapi.com/"),
		OMDBTimeout:  time.Duration(getEnvInt("OMDB_TIMEOUT_SECONDS", 10)) * time.Second,

		ArchiveSearchEndpoint:   getEnv("ARCHIVE_SEARCH_ENDPOINT", "https://archive.org/advancedsearch.php"),
		ArchiveMetadataEndpoint: getEnv("ARCHIVE_METADATA_ENDPOINT", "https://archive.org/metadata/"),
		ArchiveDownloadBase:     getEnv("ARCHIVE_DOWNLOAD_BASE", "https://archive.org/download/"),
		ArchiveDetailsBase:      getEnv("ARCHIVE_DETAILS_BASE", "https://archive.org/details/"),
		ArchiveRows:             getEnvInt("ARCHIVE_ROWS", 5),
		ArchiveSearchTimeout:    time.Duration(getEnvInt("ARCHIVE_SEARCH_TIMEOUT_SECONDS", 20)) * time.Second,
		ArchiveMetadataTimeout:  time.Duration(getEnvInt("ARCHIVE_METADATA_TIMEOUT_SECONDS", 15)) * time.Second,

		PexelsAPIKey:   strings.TrimSpace(os.Getenv("PEXELS_API_KEY")),
		PexelsEndpoint: getEnv("PEXELS_ENDPOINT", "https://api.pexels.com/videos/search"),
		PexelsPerPage:  getEnvInt("PEXELS_PER_PAGE", 3),
		PexelsTimeout:  time.Duration(getEnvInt("PEXELS_TIMEOUT_SECONDS", 10)) * time.Second,

		VerifyTimeout:       time.Duration(getEnvInt("VERIFY_TIMEOUT_SECONDS", 8)) * time.Second,
		SimilarityThreshold: getEnvInt("SIMILARITY_THRESHOLD", 90),
		MaxItems:            getEnvInt("SEARCH_MAX_ITEMS", 5),
		MaxAssetsPerItem:    getEnvInt("SEARCH_MAX_ASSETS_PER_ITEM", 3),

		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
