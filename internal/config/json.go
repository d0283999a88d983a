package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/typekeeper/internal/flagx"
)

// JsonConfig mirrors the JSON config file. Absent or empty fields leave the
// current value untouched.
type JsonConfig struct {
	Root            string `json:"root"`
	Namespace       string `json:"namespace"`
	SourceExt       string `json:"source_ext"`
	ArtifactExt     string `json:"artifact_ext"`
	Format          string `json:"format"`
	Compiler        string `json:"compiler"`
	CompilerCommand string `json:"compiler_command"`
	JournalDSN      string `json:"journal_dsn"`
	LogLevel        string `json:"log_level"`
	LogFormat       string `json:"log_format"`
	MetricsAddr     string `json:"metrics_addr"`
	S3              struct {
		Bucket    string `json:"bucket"`
		Region    string `json:"region"`
		Endpoint  string `json:"endpoint"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
		Prefix    string `json:"prefix"`
		PathStyle *bool  `json:"path_style"`
	} `json:"s3"`
}

// parseJson overlays cfg with the file named by -c/-config in args. It
// panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	set(&cfg.Root, jc.Root)
	set(&cfg.Namespace, jc.Namespace)
	set(&cfg.SourceExt, jc.SourceExt)
	set(&cfg.ArtifactExt, jc.ArtifactExt)
	set(&cfg.Format, jc.Format)
	set(&cfg.Compiler, jc.Compiler)
	set(&cfg.CompilerCommand, jc.CompilerCommand)
	set(&cfg.JournalDSN, jc.JournalDSN)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogFormat, jc.LogFormat)
	set(&cfg.MetricsAddr, jc.MetricsAddr)
	set(&cfg.S3.Bucket, jc.S3.Bucket)
	set(&cfg.S3.Region, jc.S3.Region)
	set(&cfg.S3.Endpoint, jc.S3.Endpoint)
	set(&cfg.S3.AccessKey, jc.S3.AccessKey)
	set(&cfg.S3.SecretKey, jc.S3.SecretKey)
	set(&cfg.S3.Prefix, jc.S3.Prefix)
	if jc.S3.PathStyle != nil {
		cfg.S3.PathStyle = *jc.S3.PathStyle
	}
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
