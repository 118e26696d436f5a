package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"revisio/internal/ledger"
)

const (
	// DefaultRoot is the notes root, relative to the working directory
	DefaultRoot = "docs"
	// DefaultLedgerName is the ledger file name inside the notes root,
	// without the note extension
	DefaultLedgerName = "index"
	// DefaultLogLevel keeps normal runs quiet
	DefaultLogLevel = "warn"
	// JournalOff disables the review journal
	JournalOff = "off"

	envPrefix     = "REVISIO"
	configName    = ".revisio"
	configPathEnv = "REVISIO_CONFIG_PATH"
)

// envKeyReplacer maps nested keys such as labels.today to REVISIO_LABELS_TODAY
var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds the resolved settings of a run
type Config struct {
	Root     string
	Ledger   string
	Editor   string
	Vault    string
	Journal  string
	LogLevel log.Level
	Format   ledger.Format
}

// LedgerPath returns the ledger location inside the notes root
func (c *Config) LedgerPath() string {
	if filepath.IsAbs(c.Ledger) {
		return c.Ledger
	}
	return filepath.Join(c.Root, c.Ledger)
}

// JournalPath returns the review journal database location. An empty
// journal setting means one database per notes root under the XDG data
// directory; "off" disables the journal.
func (c *Config) JournalPath() (string, bool) {
	switch strings.ToLower(strings.TrimSpace(c.Journal)) {
	case JournalOff:
		return "", false
	case "":
	default:
		return c.Journal, true
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	root := c.Root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	h := sha256.Sum256([]byte(root))
	return filepath.Join(dataHome, "revisio", hex.EncodeToString(h[:8])+".db"), true
}

// Load resolves the configuration from defaults, an optional .revisio file
// and REVISIO_* environment variables.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if override := os.Getenv(configPathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	d := ledger.DefaultFormat
	v.SetDefault("root", DefaultRoot)
	v.SetDefault("ledger", "")
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("editor", "")
	v.SetDefault("vault", "")
	v.SetDefault("journal", "")
	v.SetDefault("extension", d.Extension)
	v.SetDefault("labels.timeline", d.TimelineHeading)
	v.SetDefault("labels.today", d.TodayHeading)
	v.SetDefault("labels.new_items", d.NewItemsHeading)
	v.SetDefault("labels.review", d.ReviewHeading)
	v.SetDefault("labels.no_reviews", d.NoReviews)
	v.SetDefault("labels.no_new_items", d.NoNewItems)
	v.SetDefault("labels.table_header", d.TableHeader)
	v.SetDefault("labels.table_align", d.TableAlign)
}

func fromViper(v *viper.Viper) (*Config, error) {
	root, err := homedir.Expand(v.GetString("root"))
	if err != nil {
		return nil, fmt.Errorf("failed to expand notes root: %w", err)
	}

	vault := root
	if v.GetString("vault") != "" {
		if vault, err = homedir.Expand(v.GetString("vault")); err != nil {
			return nil, fmt.Errorf("failed to expand vault path: %w", err)
		}
	}

	journal := v.GetString("journal")
	if journal != "" && !strings.EqualFold(journal, JournalOff) {
		if journal, err = homedir.Expand(journal); err != nil {
			return nil, fmt.Errorf("failed to expand journal path: %w", err)
		}
	}

	level, err := log.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", v.GetString("log_level"), err)
	}

	format := ledger.Format{
		TimelineHeading: v.GetString("labels.timeline"),
		TodayHeading:    v.GetString("labels.today"),
		NewItemsHeading: v.GetString("labels.new_items"),
		ReviewHeading:   v.GetString("labels.review"),
		NoReviews:       v.GetString("labels.no_reviews"),
		NoNewItems:      v.GetString("labels.no_new_items"),
		TableHeader:     v.GetString("labels.table_header"),
		TableAlign:      v.GetString("labels.table_align"),
		Extension:       v.GetString("extension"),
	}

	format = format.WithDefaults()
	ledgerPath := v.GetString("ledger")
	if ledgerPath == "" {
		ledgerPath = DefaultLedgerName + format.Extension
	}

	return &Config{
		Root:     root,
		Ledger:   ledgerPath,
		Editor:   v.GetString("editor"),
		Vault:    vault,
		Journal:  journal,
		LogLevel: level,
		Format:   format,
	}, nil
}

// Logger builds the process logger on stderr
func (c *Config) Logger(prefix string) *log.Logger {
	return c.LoggerTo(os.Stderr, prefix)
}

// LoggerTo builds a logger writing to w
func (c *Config) LoggerTo(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: prefix,
		Level:  c.LogLevel,
	})
}
