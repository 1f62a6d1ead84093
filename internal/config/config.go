// Package config holds the settings shared by every i18n-tools subcommand.
//
// Values are layered: built-in defaults, then an optional TOML file, then
// I18N_* environment variables. Command-line flags are applied last by the
// subcommands themselves.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"
	"golang.org/x/text/language"
	"golang.org/x/xerrors"
)

// EnvPrefix is the prefix of environment overrides, e.g. I18N_DB_HOST.
const EnvPrefix = "I18N"

// DefaultFile is looked up in the repository root when --config is not given.
const DefaultFile = "i18n-tools.toml"

type DB struct {
	Host     string `toml:"host" envconfig:"HOST"`
	Port     int    `toml:"port" envconfig:"PORT"`
	Database string `toml:"database" envconfig:"NAME"`
	User     string `toml:"user" envconfig:"USER"`
	Password string `toml:"password" envconfig:"PASSWORD"`
	SSLMode  string `toml:"sslmode" envconfig:"SSLMODE"`
}

type Generator struct {
	// HeaderDir is the directory printed in the generated file header,
	// not the directory the file is written to.
	HeaderDir string `toml:"header_dir" envconfig:"HEADER_DIR"`
	// Topics and flags with an identifier below MinID are dropped.
	MinID int64 `toml:"min_id" envconfig:"MIN_ID"`
}

type Audit struct {
	LocaleDir     string   `toml:"locale_dir" envconfig:"LOCALE_DIR"`
	SourceDir     string   `toml:"source_dir" envconfig:"SOURCE_DIR"`
	LocalePattern string   `toml:"locale_pattern" envconfig:"LOCALE_PATTERN"`
	SourcePattern string   `toml:"source_pattern" envconfig:"SOURCE_PATTERN"`
	Function      string   `toml:"function" envconfig:"FUNCTION"`
	Output        string   `toml:"output" envconfig:"OUTPUT"`
	Ignore        []string `toml:"ignore" envconfig:"IGNORE"`
}

type CSV struct {
	Input          string `toml:"input" envconfig:"INPUT"`
	Schema         string `toml:"schema" envconfig:"SCHEMA"`
	GenreThreshold int    `toml:"genre_threshold" envconfig:"GENRE_THRESHOLD"`
}

type Config struct {
	DB        DB        `toml:"db" envconfig:"DB"`
	Languages []string  `toml:"languages" envconfig:"LANGUAGES"`
	Generator Generator `toml:"generator" envconfig:"GENERATOR"`
	Audit     Audit     `toml:"audit" envconfig:"AUDIT"`
	CSV       CSV       `toml:"csv" envconfig:"CSV"`
}

func Default() *Config {
	return &Config{
		DB: DB{
			Host:     "localhost",
			Port:     5432,
			Database: "oklab",
			SSLMode:  "disable",
		},
		Languages: []string{"en", "de", "da"},
		Generator: Generator{
			HeaderDir: "src/i18n",
		},
		Audit: Audit{
			LocaleDir:     "src/i18n",
			SourceDir:     "src",
			LocalePattern: `\.ts$`,
			SourcePattern: `\.(ts|vue)$`,
			Function:      "t",
			Output:        "tools/i18n_missing_patch.json",
			Ignore:        []string{"node_modules", ".git", "dist"},
		},
		CSV: CSV{
			Input:          "uranus-event-types-and-genres.csv",
			Schema:         "uranus",
			GenreThreshold: 1000,
		},
	}
}

// Load builds a Config from defaults, the TOML file at path and the
// environment. A missing file is only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		p, err := homedir.Expand(path)
		if err != nil {
			return nil, xerrors.Errorf("expanding config path: %w", err)
		}
		if _, err := toml.DecodeFile(p, cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || required {
				return nil, xerrors.Errorf("loading config %s: %w", p, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, xerrors.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var merr *multierror.Error

	if len(c.Languages) == 0 {
		merr = multierror.Append(merr, xerrors.New("languages: at least one language is required"))
	}
	seen := make(map[string]bool, len(c.Languages))
	for _, l := range c.Languages {
		if seen[l] {
			merr = multierror.Append(merr, xerrors.Errorf("languages: %q listed twice", l))
		}
		seen[l] = true
		if len(l) != 2 {
			merr = multierror.Append(merr, xerrors.Errorf("languages: %q is not a two-letter ISO 639-1 code", l))
			continue
		}
		if _, err := language.ParseBase(l); err != nil {
			merr = multierror.Append(merr, xerrors.Errorf("languages: %q: %w", l, err))
		}
	}

	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		merr = multierror.Append(merr, xerrors.Errorf("db.port: %d out of range", c.DB.Port))
	}

	for name, pat := range map[string]string{
		"audit.locale_pattern": c.Audit.LocalePattern,
		"audit.source_pattern": c.Audit.SourcePattern,
	} {
		if _, err := regexp.Compile(pat); err != nil {
			merr = multierror.Append(merr, xerrors.Errorf("%s: %w", name, err))
		}
	}
	if !isIdentifier(c.Audit.Function) {
		merr = multierror.Append(merr, xerrors.Errorf("audit.function: %q is not an identifier", c.Audit.Function))
	}

	if c.CSV.GenreThreshold <= 0 {
		merr = multierror.Append(merr, xerrors.Errorf("csv.genre_threshold: must be positive, got %d", c.CSV.GenreThreshold))
	}
	if c.CSV.Schema != "" && !isIdentifier(c.CSV.Schema) {
		merr = multierror.Append(merr, xerrors.Errorf("csv.schema: %q is not an identifier", c.CSV.Schema))
	}

	return merr.ErrorOrNil()
}

// Resolve makes p absolute relative to root, expanding a leading ~.
func Resolve(root, p string) string {
	if expanded, err := homedir.Expand(p); err == nil {
		p = expanded
	}
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}

// ConnString renders DB as a libpq keyword/value string. Empty values are
// left out so pgx falls back to its PG* environment defaults.
func (d DB) ConnString() string {
	var parts []string
	add := func(k, v string) {
		if v == "" {
			return
		}
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `'`, `\'`)
		parts = append(parts, k+"='"+v+"'")
	}
	add("host", d.Host)
	if d.Port != 0 {
		add("port", strconv.Itoa(d.Port))
	}
	add("dbname", d.Database)
	add("user", d.User)
	add("password", d.Password)
	add("sslmode", d.SSLMode)
	return strings.Join(parts, " ")
}

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func isIdentifier(s string) bool {
	return identRe.MatchString(s)
}
