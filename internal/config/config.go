package config

import (
	"encoding/json"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string `json:"port"`
	APIBaseURL   string `json:"apiBaseUrl"`
	APIToken     string `json:"apiToken"`
	Module       string `json:"module"`
	ReferenceDir string `json:"referenceDir"`

	// SnapshotPath points at a local doctype dump. When set, builds
	// read it instead of calling the metadata API.
	SnapshotPath string `json:"snapshotPath"`
	OutputPath   string `json:"outputPath"`

	FetchWorkers int     `json:"fetchWorkers"`
	RateLimit    float64 `json:"rateLimit"` // upstream requests per second, 0 = unlimited

	AllowedOrigins []string `json:"allowedOrigins"`
}

func def() Config {
	return Config{
		Port:         "8080",
		APIBaseURL:   "",
		APIToken:     "",
		Module:       "Arteris",
		ReferenceDir: "reference",
		SnapshotPath: "",
		OutputPath:   "output/hierarchical_doctypes.json",
		FetchWorkers: 4,
		RateLimit:    0,
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5174",
		},
	}
}

func loadJSON(path string) (Config, error) {
	c := def()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	if v, ok := os.LookupEnv(k); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func getenvFloat(k string, fallback float64) float64 {
	if v, ok := os.LookupEnv(k); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// fromFileAndEnv reads the JSON config if it exists, then applies ENV
// overrides.
func fromFileAndEnv(jsonPath string) Config {
	cfg := def()

	if st, err := os.Stat(jsonPath); err == nil && !st.IsDir() {
		if c2, err := loadJSON(jsonPath); err == nil {
			cfg = c2
		}
	}

	cfg.Port = getenv("DOCTREE_PORT", cfg.Port)
	cfg.APIBaseURL = getenv("DOCTREE_API_BASE_URL", cfg.APIBaseURL)
	cfg.APIToken = getenv("DOCTREE_API_TOKEN", cfg.APIToken)
	cfg.Module = getenv("DOCTREE_MODULE", cfg.Module)
	cfg.ReferenceDir = getenv("DOCTREE_REFERENCE_DIR", cfg.ReferenceDir)
	cfg.SnapshotPath = getenv("DOCTREE_SNAPSHOT", cfg.SnapshotPath)
	cfg.OutputPath = getenv("DOCTREE_OUTPUT", cfg.OutputPath)
	cfg.FetchWorkers = getenvInt("DOCTREE_FETCH_WORKERS", cfg.FetchWorkers)
	cfg.RateLimit = getenvFloat("DOCTREE_RATE_LIMIT", cfg.RateLimit)
	if v := getenv("DOCTREE_ALLOWED_ORIGINS", ""); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}

	return cfg
}

// LoadWithPath reads the JSON config at jsonPath, then ENV, then
// flags, in increasing priority. A -config flag pointing elsewhere
// re-reads file and ENV from there, with explicitly passed flags still
// winning.
func LoadWithPath(jsonPath string) Config {
	// .env is optional and never overrides real environment variables.
	_ = godotenv.Load()

	cfg := fromFileAndEnv(jsonPath)

	configPath := flag.String("config", jsonPath, "Path to config JSON")
	port := flag.String("port", cfg.Port, "HTTP port")
	apiURL := flag.String("api-url", cfg.APIBaseURL, "Metadata API base URL")
	apiToken := flag.String("api-token", cfg.APIToken, "Metadata API token")
	module := flag.String("module", cfg.Module, "Module whose doctypes are fetched")
	referenceDir := flag.String("reference", cfg.ReferenceDir, "Path to the reference directory")
	snapshot := flag.String("snapshot", cfg.SnapshotPath, "Local doctype snapshot JSON (skips the API)")
	output := flag.String("output", cfg.OutputPath, "Output artifact path")
	workers := flag.Int("workers", cfg.FetchWorkers, "Concurrent field fetches")
	rateLimit := flag.Float64("rate-limit", cfg.RateLimit, "Upstream requests per second (0 = unlimited)")
	origins := flag.String("origins", strings.Join(cfg.AllowedOrigins, ","), "Comma separated CORS origins")

	flag.Parse()

	if *configPath != jsonPath {
		cfg = fromFileAndEnv(*configPath)
	}

	// Only flags the caller actually passed override the config, so a
	// -config re-read does not get clobbered by stale defaults.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = strings.TrimSpace(*port)
		case "api-url":
			cfg.APIBaseURL = strings.TrimSpace(*apiURL)
		case "api-token":
			cfg.APIToken = strings.TrimSpace(*apiToken)
		case "module":
			cfg.Module = strings.TrimSpace(*module)
		case "reference":
			cfg.ReferenceDir = strings.TrimSpace(*referenceDir)
		case "snapshot":
			cfg.SnapshotPath = strings.TrimSpace(*snapshot)
		case "output":
			cfg.OutputPath = strings.TrimSpace(*output)
		case "workers":
			cfg.FetchWorkers = *workers
		case "rate-limit":
			cfg.RateLimit = *rateLimit
		case "origins":
			cfg.AllowedOrigins = splitList(*origins)
		}
	})

	return cfg
}
