package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileEnv names the optional YAML config file.
const FileEnv = "MATURITY_CONFIG"

type envKind int

const (
	envString envKind = iota
	envBoolean
	envCSV
)

// envKeys lists the recognised variables. Each maps to the lower-cased
// koanf key of the same name.
var envKeys = map[string]envKind{
	"MODE":                 envString,
	"HTTP_ADDR":            envString,
	"DB_DRIVER":            envString,
	"DB_DSN":               envString,
	"STORE_BACKEND":        envString,
	"STORAGE_KEY":          envString,
	"BLOB_BASE_PATH":       envString,
	"ARCHIVE_REPORTS":      envBoolean,
	"ENABLE_LOCAL_AUTH":    envBoolean,
	"ENABLE_GUEST_AUTH":    envBoolean,
	"ADMIN_USER":           envString,
	"ADMIN_PASS_HASH":      envString,
	"AUTH_HMAC_SECRET":     envString,
	"TOKEN_TTL":            envString,
	"CORS_ORIGINS_ONLINE":  envCSV,
	"CORS_ORIGINS_OFFLINE": envCSV,
	"PLAYBOOK_PATH":        envString,
	"PLAYBOOK_WATCH":       envBoolean,
	"LOG_LEVEL":            envString,
	"LOG_DEV":              envBoolean,
}

// Load layers, lowest first: Defaults, the YAML file named by
// MATURITY_CONFIG, then environment variables. Empty variables are
// treated as unset.
func Load() (Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	var envErr error
	provider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		kind, ok := envKeys[key]
		if !ok || value == "" {
			return "", nil
		}
		switch kind {
		case envBoolean:
			b, ok := parseBool(value)
			if !ok {
				envErr = fmt.Errorf("config: %s: not a boolean: %q", key, value)
				return "", nil
			}
			return strings.ToLower(key), b
		case envCSV:
			return strings.ToLower(key), splitCSV(value)
		}
		return strings.ToLower(key), value
	})
	if err := k.Load(provider, nil); err != nil {
		return Config{}, err
	}
	if envErr != nil {
		return Config{}, envErr
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.Mode = Mode(strings.ToLower(string(cfg.Mode)))
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func parseBool(v string) (bool, bool) {
	switch v {
	case "1", "true", "TRUE", "yes", "YES":
		return true, true
	case "0", "false", "FALSE", "no", "NO":
		return false, true
	}
	return false, false
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
