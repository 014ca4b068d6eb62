// Package logging configures the apex/log handler chain shared by both
// binaries: human-readable output on stderr, plus a rotating file sink when
// a log directory is configured.
package logging

import (
	"os"
	"path/filepath"

	"github.com/NYTimes/logrotate"
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/logfmt"
	"github.com/apex/log/handlers/multi"
)

// Config controls where and how verbosely a binary logs.
type Config struct {
	Level     string
	Directory string
	Filename  string
}

// Configure installs the multi-handler (cli + rotating file) and log level
// globally; with an empty Directory it installs the cli handler alone. Call
// once at startup, before anything else logs.
func Configure(cfg Config) (func() error, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Directory == "" {
		log.SetHandler(cli.Default)
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(cfg.Directory, cfg.Filename)
	file, err := logrotate.NewFile(path)
	if err != nil {
		return nil, err
	}

	log.SetHandler(multi.New(cli.Default, logfmt.New(file)))
	return file.Close, nil
}
