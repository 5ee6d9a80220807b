package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"course-catalog/internal/sftpclient"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	LogMode string

	// Persistence
	Store       string
	DSN         string
	RedisAddr   string
	RedisPrefix string
	WriteMode   string
	BatchSize   int
	MaxRetries  int
	RetryBase   time.Duration
	RetryMax    time.Duration

	// Extraction
	LabFallback         bool
	SnapshotPath        string
	DefaultDelivery     string
	DescriptionTemplate string
	Workers             int
	// Headers maps a section name to extra header phrasings.
	Headers map[string][]string

	// SFTP
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPKnownHosts            string
	SFTPInsecureIgnoreHostKey bool
}

// Load reads the environment, then overlays the YAML file named by
// CATALOG_CONFIG when it is set.
func Load() (Config, error) {
	cfg := Config{
		LogMode: getenv("CATALOG_LOG_MODE", "dev"),

		Store:       strings.ToLower(getenv("CATALOG_STORE", StoreMemory)),
		DSN:         os.Getenv("CATALOG_DSN"),
		RedisAddr:   getenv("CATALOG_REDIS_ADDR", "localhost:6379"),
		RedisPrefix: getenv("CATALOG_REDIS_PREFIX", "catalog"),
		WriteMode:   getenv("CATALOG_WRITE_MODE", "insert"),
		BatchSize:   getenvInt("CATALOG_BATCH_SIZE", 25),
		MaxRetries:  getenvInt("CATALOG_MAX_RETRIES", 5),
		RetryBase:   getenvDuration("CATALOG_RETRY_BASE", 200*time.Millisecond),
		RetryMax:    getenvDuration("CATALOG_RETRY_MAX", 5*time.Second),

		LabFallback:         getenvBool("CATALOG_LAB_FALLBACK", false),
		SnapshotPath:        getenv("CATALOG_SNAPSHOT", "extracted_courses_debug.json"),
		DefaultDelivery:     getenv("CATALOG_DEFAULT_DELIVERY", "classroom"),
		DescriptionTemplate: getenv("CATALOG_DESCRIPTION_TEMPLATE", "%s에 대한 과정 설명입니다."),
		Workers:             getenvInt("CATALOG_WORKERS", 4),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPKnownHosts:            os.Getenv("SFTP_KNOWN_HOSTS"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
	}

	if path := strings.TrimSpace(os.Getenv("CATALOG_CONFIG")); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, cfg.normalize()
}

func (c *Config) normalize() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StorePostgres, StoreRedis:
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	if c.Store == StoreSQLite && c.DSN == "" {
		c.DSN = "catalog.db"
	}
	if c.Store == StorePostgres && c.DSN == "" {
		return fmt.Errorf("config: CATALOG_DSN is required for postgres")
	}
	if c.BatchSize < 1 || c.BatchSize > 25 {
		c.BatchSize = 25
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}

// SetStore switches the backend and re-applies its defaults.
func (c *Config) SetStore(name string) error {
	c.Store = strings.ToLower(strings.TrimSpace(name))
	return c.normalize()
}

// SFTP returns the connection settings for sftpclient.
func (c Config) SFTP() sftpclient.Config {
	return sftpclient.Config{
		Host:                  c.SFTPHost,
		Port:                  c.SFTPPort,
		User:                  c.SFTPUser,
		Pass:                  c.SFTPPass,
		RemoteDir:             c.SFTPDir,
		KnownHosts:            c.SFTPKnownHosts,
		InsecureIgnoreHostKey: c.SFTPInsecureIgnoreHostKey,
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return b
}

func getenvDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(k)))
	if err != nil || d < 0 {
		return def
	}
	return d
}

// fileConfig mirrors Config for YAML. Absent keys leave values untouched.
type fileConfig struct {
	LogMode *string `yaml:"log_mode"`
	Store   *string `yaml:"store"`
	DSN     *string `yaml:"dsn"`
	Redis   struct {
		Addr   *string `yaml:"addr"`
		Prefix *string `yaml:"prefix"`
	} `yaml:"redis"`
	WriteMode *string `yaml:"write_mode"`
	Batch     struct {
		Size       *int    `yaml:"size"`
		MaxRetries *int    `yaml:"max_retries"`
		RetryBase  *string `yaml:"retry_base"`
		RetryMax   *string `yaml:"retry_max"`
	} `yaml:"batch"`
	LabFallback *bool   `yaml:"lab_fallback"`
	Snapshot    *string `yaml:"snapshot"`
	Workers     *int    `yaml:"workers"`
	Defaults    struct {
		Delivery            *string `yaml:"delivery"`
		DescriptionTemplate *string `yaml:"description_template"`
	} `yaml:"defaults"`
	Headers map[string][]string `yaml:"headers"`
}

// LoadFile overlays the YAML file at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var f fileConfig
	if err := yaml.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	setString(&cfg.LogMode, f.LogMode)
	setString(&cfg.Store, f.Store)
	cfg.Store = strings.ToLower(cfg.Store)
	setString(&cfg.DSN, f.DSN)
	setString(&cfg.RedisAddr, f.Redis.Addr)
	setString(&cfg.RedisPrefix, f.Redis.Prefix)
	setString(&cfg.WriteMode, f.WriteMode)
	setInt(&cfg.BatchSize, f.Batch.Size)
	setInt(&cfg.MaxRetries, f.Batch.MaxRetries)
	if err := setDuration(&cfg.RetryBase, f.Batch.RetryBase); err != nil {
		return fmt.Errorf("config: batch.retry_base: %w", err)
	}
	if err := setDuration(&cfg.RetryMax, f.Batch.RetryMax); err != nil {
		return fmt.Errorf("config: batch.retry_max: %w", err)
	}
	if f.LabFallback != nil {
		cfg.LabFallback = *f.LabFallback
	}
	setString(&cfg.SnapshotPath, f.Snapshot)
	setInt(&cfg.Workers, f.Workers)
	setString(&cfg.DefaultDelivery, f.Defaults.Delivery)
	setString(&cfg.DescriptionTemplate, f.Defaults.DescriptionTemplate)

	if len(f.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = map[string][]string{}
		}
		for sec, phrases := range f.Headers {
			cfg.Headers[sec] = append(cfg.Headers[sec], phrases...)
		}
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*v))
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
