package fraglog

import "log/slog"

// ParseOption configures an Aggregator and the Parse* drivers.
type ParseOption func(*parseConfig)

// parseConfig holds internal configuration for parsing.
type parseConfig struct {
	logger        *slog.Logger
	skipMalformed bool
}

// defaultParseConfig returns a parseConfig with sensible defaults.
func defaultParseConfig() *parseConfig {
	return &parseConfig{}
}

// applyParseOptions applies functional options to a parseConfig.
func applyParseOptions(opts []ParseOption) *parseConfig {
	cfg := defaultParseConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithLogger sets the slog logger for debug output.
// If nil (default), logging is disabled.
func WithLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) {
		c.logger = logger
	}
}

// WithSkipMalformed drops lines that fail to parse instead of stopping.
// Skipped lines are logged at warn level.
// Default: false (the first malformed line ends the parse).
func WithSkipMalformed(skip bool) ParseOption {
	return func(c *parseConfig) {
		c.skipMalformed = skip
	}
}

// FollowOption configures Follow behavior using the functional options pattern.
type FollowOption func(*followConfig)

// followConfig holds internal configuration for the follower.
type followConfig struct {
	logPath       string
	fromStart     bool
	poll          bool
	skipMalformed bool
	logger        *slog.Logger
}

// defaultFollowConfig returns a followConfig with sensible defaults.
func defaultFollowConfig() *followConfig {
	return &followConfig{}
}

// applyFollowOptions applies functional options to a followConfig.
func applyFollowOptions(opts []FollowOption) *followConfig {
	cfg := defaultFollowConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithLogPath sets the games.log to follow.
// If not set, the file is located with the same rules as the CLI
// (FRAGLOG_LOG environment variable, then default install locations).
func WithLogPath(path string) FollowOption {
	return func(c *followConfig) {
		c.logPath = path
	}
}

// WithFollowFromStart replays the whole file before following new lines.
// Default: false (only lines written after Follow starts are seen).
func WithFollowFromStart(fromStart bool) FollowOption {
	return func(c *followConfig) {
		c.fromStart = fromStart
	}
}

// WithFollowPoll polls the file instead of relying on filesystem
// notifications. Useful on network mounts.
func WithFollowPoll(poll bool) FollowOption {
	return func(c *followConfig) {
		c.poll = poll
	}
}

// WithFollowSkipMalformed only logs malformed lines instead of sending
// them to the error channel.
func WithFollowSkipMalformed(skip bool) FollowOption {
	return func(c *followConfig) {
		c.skipMalformed = skip
	}
}

// WithFollowLogger sets the slog logger for debug output.
// If nil (default), logging is disabled.
func WithFollowLogger(logger *slog.Logger) FollowOption {
	return func(c *followConfig) {
		c.logger = logger
	}
}

// parseOptions converts the follow configuration into aggregator options.
func (c *followConfig) parseOptions() []ParseOption {
	return []ParseOption{
		WithLogger(c.logger),
		WithSkipMalformed(c.skipMalformed),
	}
}
