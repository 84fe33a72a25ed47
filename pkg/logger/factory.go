package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logger settings read from the environment.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Option configures a logger built by New.
type Option func(*options)

type options struct {
	output     io.Writer
	extractors []ContextExtractor
	level      slog.Level
	text       bool
}

// WithLevel sets the minimum level. Default: info.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithText switches from JSON to the key=value text format.
func WithText() Option {
	return func(o *options) {
		o.text = true
	}
}

// WithOutput sets the destination. Default: stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithExtractors adds context extractors applied on every record.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// Options converts the config into logger options. Unknown levels fall
// back to info; any format other than "text" is JSON.
func (c Config) Options() []Option {
	opts := []Option{WithLevel(ParseLevel(c.Level))}
	if strings.EqualFold(c.Format, "text") {
		opts = append(opts, WithText())
	}
	return opts
}

// ParseLevel maps debug, info, warn and error (any case) to slog levels.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// New creates a logger, JSON on stdout at info level unless configured
// otherwise.
func New(opts ...Option) *slog.Logger {
	o := &options{output: os.Stdout, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(o)
	}
	return slog.New(NewContextHandler(o.handler(), o.extractors...))
}

func (o *options) handler() slog.Handler {
	ho := &slog.HandlerOptions{Level: o.level}
	if o.text {
		return slog.NewTextHandler(o.output, ho)
	}
	return slog.NewJSONHandler(o.output, ho)
}
