// Package config fills env-tagged structs from the process environment and
// optional dotenv files.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type options struct {
	files   []string
	prefix  string
	environ map[string]string
}

// Option tunes Load.
type Option func(*options)

// WithEnvFiles loads the named dotenv files before parsing. Missing files are
// skipped and variables already set in the process win over file values.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.files = append(o.files, files...) }
}

// WithPrefix prepends prefix to every env tag, e.g. "STOREFRONT_".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnviron parses from vars instead of the process environment.
func WithEnviron(vars map[string]string) Option {
	return func(o *options) { o.environ = vars }
}

// Load parses env tags into cfg, a pointer to a struct:
//
//	type Config struct {
//	    Port     int    `env:"HTTP_PORT" envDefault:"8080"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	for _, f := range o.files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      o.prefix,
		Environment: o.environ,
	}); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
