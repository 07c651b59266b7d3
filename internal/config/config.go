package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// ephemeralSecret signs tokens when no secret is configured. It lives for
// the process only; guests get a fresh token from their cookie.
var ephemeralSecret = sync.OnceValue(func() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("config: random secret: %v", err))
	}
	return b
})

type Config struct {
	Mode     Mode   `koanf:"mode"`
	HTTPAddr string `koanf:"http_addr"`

	DBDriver string `koanf:"db_driver"` // sqlite|postgres
	DBDSN    string `koanf:"db_dsn"`

	StoreBackend string `koanf:"store_backend"` // memory|sql
	StorageKey   string `koanf:"storage_key"`

	BlobBasePath   string `koanf:"blob_base_path"`
	ArchiveReports bool   `koanf:"archive_reports"`

	EnableLocalAuth bool          `koanf:"enable_local_auth"`
	EnableGuestAuth bool          `koanf:"enable_guest_auth"`
	AdminUser       string        `koanf:"admin_user"`
	AdminPassHash   string        `koanf:"admin_pass_hash"` // bcrypt
	AuthHMACSecret  string        `koanf:"auth_hmac_secret"`
	TokenTTL        time.Duration `koanf:"token_ttl"`

	CORSOriginsOnline  []string `koanf:"cors_origins_online"`
	CORSOriginsOffline []string `koanf:"cors_origins_offline"`

	PlaybookPath  string `koanf:"playbook_path"` // empty: built-in content
	PlaybookWatch bool   `koanf:"playbook_watch"`

	LogLevel string `koanf:"log_level"`
	LogDev   bool   `koanf:"log_dev"`
}

// Defaults returns the offline, single-machine configuration.
func Defaults() Config {
	return Config{
		Mode:               ModeOffline,
		HTTPAddr:           ":8080",
		DBDriver:           "sqlite",
		StoreBackend:       "sql",
		StorageKey:         "assessmentResults",
		BlobBasePath:       "./data",
		ArchiveReports:     false,
		EnableLocalAuth:    false,
		EnableGuestAuth:    true,
		AdminUser:          "admin",
		TokenTTL:           24 * time.Hour,
		CORSOriginsOnline:  []string{"https://maturity.mindengage.ai"},
		CORSOriginsOffline: []string{"http://localhost:3000", "http://localhost:5173"},
		LogLevel:           "info",
	}
}

// CORSOrigins returns the allow-list for the configured mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

// Secret returns the token signing secret. Without a configured secret
// in offline mode it is a random per-process value, so tokens do not
// survive a restart.
func (c Config) Secret() []byte {
	if c.AuthHMACSecret == "" && c.Mode != ModeOnline {
		return ephemeralSecret()
	}
	return []byte(c.AuthHMACSecret)
}

func (c Config) Validate() error {
	var errs []error
	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		errs = append(errs, fmt.Errorf("mode: want offline|online, got %q", c.Mode))
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("http_addr must not be empty"))
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("db_driver: want sqlite|postgres, got %q", c.DBDriver))
	}
	switch c.StoreBackend {
	case "memory", "sql":
	default:
		errs = append(errs, fmt.Errorf("store_backend: want memory|sql, got %q", c.StoreBackend))
	}
	if c.StorageKey == "" {
		errs = append(errs, errors.New("storage_key must not be empty"))
	}
	if c.EnableLocalAuth && (c.AdminUser == "" || c.AdminPassHash == "") {
		errs = append(errs, errors.New("local auth needs admin_user and admin_pass_hash"))
	}
	if c.Mode == ModeOnline && len(c.AuthHMACSecret) < 32 {
		errs = append(errs, errors.New("online mode needs auth_hmac_secret of at least 32 bytes"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	if c.PlaybookWatch && c.PlaybookPath == "" {
		errs = append(errs, errors.New("playbook_watch needs playbook_path"))
	}
	return errors.Join(errs...)
}
