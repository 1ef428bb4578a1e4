// Package internal holds the environment configuration shared by the
// server and tooling binaries.
package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host string `env:"HOST,default=localhost"`
	Port int    `env:"PORT,default=8080"`

	AllowedOrigins string `env:"ALLOWED_ORIGINS"`

	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX,default=10"`

	CookieSecret string        `env:"COOKIE_SECRET,required=true"`
	CookieSecure bool          `env:"COOKIE_SECURE,default=false"`
	CookieMaxAge time.Duration `env:"COOKIE_MAX_AGE,default=8760h"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`

	EventBufferSize      int `env:"EVENT_BUFFER_SIZE,default=256"`
	ConnectionBufferSize int `env:"CONNECTION_BUFFER_SIZE,default=64"`

	CensoredWords     string `env:"CENSORED_WORDS"`
	CensorReplacement string `env:"CENSOR_REPLACEMENT,default=*"`
}

// Origins splits the comma-separated allowed-origin list, dropping blanks.
func (c Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// Words splits the comma-separated censored-word list, dropping blanks.
func (c Config) Words() []string {
	var words []string
	for _, word := range strings.Split(c.CensoredWords, ",") {
		if trimmed := strings.TrimSpace(word); trimmed != "" {
			words = append(words, trimmed)
		}
	}
	return words
}

// ReplacementRune enforces that the configured replacement is one character.
func (c Config) ReplacementRune() (rune, error) {
	r := []rune(c.CensorReplacement)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CENSOR_REPLACEMENT must be a single character, got %q",
			c.CensorReplacement,
		)
	}
	return r[0], nil
}
