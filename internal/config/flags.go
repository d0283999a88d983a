package config

import (
	"flag"

	"github.com/dmitrijs2005/typekeeper/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. Arguments for flags not
// defined here are dropped with flagx.FilterFor before parsing.
//
//	-r string            source root
//	-n string            namespace
//	-src-ext string      compilation unit extension
//	-art-ext string      artifact extension
//	-f string            artifact format: cbor or wire
//	-compiler string     builtin or exec
//	-toolchain string    command line of the exec compiler
//	-j string            journal sqlite DSN, "off" to disable
//	-l string            log level
//	-log-format string   text or json
//	-m string            metrics listen address
//	-s3-bucket, -s3-region, -s3-endpoint, -s3-access-key, -s3-secret-key,
//	-s3-prefix string, -s3-path-style bool
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("typekeeper", flag.ContinueOnError)

	fs.StringVar(&cfg.Root, "r", cfg.Root, "source root directory")
	fs.StringVar(&cfg.Namespace, "n", cfg.Namespace, "dotted namespace of stored records")
	fs.StringVar(&cfg.SourceExt, "src-ext", cfg.SourceExt, "compilation unit file extension")
	fs.StringVar(&cfg.ArtifactExt, "art-ext", cfg.ArtifactExt, "artifact file extension")
	fs.StringVar(&cfg.Format, "f", cfg.Format, "artifact format (cbor, wire)")
	fs.StringVar(&cfg.Compiler, "compiler", cfg.Compiler, "compiler (builtin, exec)")
	fs.StringVar(&cfg.CompilerCommand, "toolchain", cfg.CompilerCommand, "toolchain command for the exec compiler")
	fs.StringVar(&cfg.JournalDSN, "j", cfg.JournalDSN, `journal sqlite DSN ("off" disables)`)
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, json)")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	fs.StringVar(&cfg.S3.Bucket, "s3-bucket", cfg.S3.Bucket, "mirror bucket")
	fs.StringVar(&cfg.S3.Region, "s3-region", cfg.S3.Region, "mirror region")
	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", cfg.S3.Endpoint, "mirror endpoint")
	fs.StringVar(&cfg.S3.AccessKey, "s3-access-key", cfg.S3.AccessKey, "mirror access key")
	fs.StringVar(&cfg.S3.SecretKey, "s3-secret-key", cfg.S3.SecretKey, "mirror secret key")
	fs.StringVar(&cfg.S3.Prefix, "s3-prefix", cfg.S3.Prefix, "mirror key prefix")
	fs.BoolVar(&cfg.S3.PathStyle, "s3-path-style", cfg.S3.PathStyle, "use path-style bucket addressing")

	if err := fs.Parse(flagx.FilterFor(fs, args)); err != nil {
		panic(err)
	}
}
