package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultSourceURL   = "https://raw.githubusercontent.com/sw5e-foundry/sw5e-fvtt-import/main/raw/equipment.json"
	DefaultDestination = "assets/catalog/equipment.json"
)

type Config struct {
	ProjectRoot string
	Destination string
	DBPath      string

	SourceURL      string
	FetchTimeoutMs int

	LogLevel  string
	LogFormat string

	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPKnownHosts            string
	SFTPInsecureIgnoreHostKey bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	root := getEnv("PROJECT_ROOT", cwd)
	if !filepath.IsAbs(root) {
		root = filepath.Join(cwd, root)
	}

	cfg := Config{
		ProjectRoot: root,
		Destination: resolve(root, getEnv("CATALOG_DEST", DefaultDestination)),
		DBPath:      resolve(root, getEnv("DB_PATH", filepath.Join("data", "catalog.db"))),

		SourceURL:      getEnv("CATALOG_SOURCE_URL", DefaultSourceURL),
		FetchTimeoutMs: getEnvInt("FETCH_TIMEOUT_MS", 60000),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		SFTPHost:                  getEnv("SFTP_HOST", ""),
		SFTPPort:                  getEnvInt("SFTP_PORT", 22),
		SFTPUser:                  getEnv("SFTP_USER", ""),
		SFTPPass:                  getEnv("SFTP_PASS", ""),
		SFTPDir:                   getEnv("SFTP_DIR", "/"),
		SFTPKnownHosts:            getEnv("SFTP_KNOWN_HOSTS", ""),
		SFTPInsecureIgnoreHostKey: getEnvBool("SFTP_INSECURE_IGNORE_HOST_KEY", false),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// RelativeToRoot returns path relative to the project root, or path itself
// when it lives outside of it.
func (c Config) RelativeToRoot(path string) string {
	rel, err := filepath.Rel(c.ProjectRoot, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
