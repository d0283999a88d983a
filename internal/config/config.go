// Package config loads typekeeper settings: defaults, then an optional JSON
// file (-c/-config), then command-line flags. Later sources win.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/typekeeper/internal/artifact"
	"github.com/dmitrijs2005/typekeeper/internal/logging"
	"github.com/dmitrijs2005/typekeeper/internal/namespace"
)

const (
	CompilerBuiltin = "builtin"
	CompilerExec    = "exec"

	// JournalOff disables the submission journal.
	JournalOff = "off"
)

// S3 configures the optional artifact mirror. An empty Bucket disables it.
type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
	PathStyle bool
}

// Config holds runtime settings for typekeeper.
type Config struct {
	Root        string
	Namespace   string
	SourceExt   string
	ArtifactExt string

	// Format is the artifact codec name, see artifact.CodecByName.
	Format string

	Compiler        string
	CompilerCommand string

	// JournalDSN is the sqlite DSN of the journal. Empty means
	// <Root>/journal.db; JournalOff disables it.
	JournalDSN string

	LogLevel  string
	LogFormat string

	// MetricsAddr is the listen address of the /metrics endpoint; empty
	// disables it.
	MetricsAddr string

	S3 S3
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.Root = filepath.Join(os.TempDir(), "typekeeper")
	c.Namespace = "typekeeper.vault.credentials"
	c.SourceExt = "unit"
	c.ArtifactExt = "art"
	c.Format = artifact.CBORCodec{}.Name()
	c.Compiler = CompilerBuiltin
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3.Region = "us-east-1"
}

// LoadConfig applies defaults, the JSON file named in args (if any) and the
// flags in args. It panics when the JSON file or a flag cannot be parsed.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}

// Journal returns the effective journal DSN, or "" when the journal is off.
func (c *Config) Journal() string {
	switch c.JournalDSN {
	case JournalOff:
		return ""
	case "":
		return filepath.Join(c.Root, "journal.db")
	}
	return c.JournalDSN
}

// Toolchain splits CompilerCommand into argv.
func (c *Config) Toolchain() []string {
	return strings.Fields(c.CompilerCommand)
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var errs []error

	if c.Root == "" {
		errs = append(errs, errors.New("root directory is empty"))
	}
	if _, err := namespace.Parse(c.Namespace); err != nil {
		errs = append(errs, err)
	}
	if strings.Trim(c.SourceExt, ".") == "" || strings.Trim(c.ArtifactExt, ".") == "" {
		errs = append(errs, errors.New("source and artifact extensions must be set"))
	} else if strings.Trim(c.SourceExt, ".") == strings.Trim(c.ArtifactExt, ".") {
		errs = append(errs, fmt.Errorf("source and artifact extensions are both %q", c.SourceExt))
	}
	for _, ext := range []string{c.SourceExt, c.ArtifactExt} {
		if strings.ContainsAny(ext, `/\`) {
			errs = append(errs, fmt.Errorf("extension %q contains a path separator", ext))
		}
	}
	if _, err := artifact.CodecByName(c.Format); err != nil {
		errs = append(errs, err)
	}
	switch c.Compiler {
	case CompilerBuiltin:
	case CompilerExec:
		if len(c.Toolchain()) == 0 {
			errs = append(errs, errors.New("exec compiler needs a toolchain command"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown compiler %q", c.Compiler))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}
