package common

import (
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/tokengate/tokengate/authorizer"
)

type Config struct {
	// Gate
	Audiences           []string      `envconfig:"AUDIENCES"`
	AuthorizedUsernames []string      `split_words:"true"`
	AllowlistPath       string        `split_words:"true"`
	ReviewWebhookURL    *url.URL      `split_words:"true"`
	ReviewTimeout       time.Duration `split_words:"true" default:"10s"`
	CABundlePath        string        `split_words:"true" envconfig:"CA_BUNDLE"`

	// Identity Headers
	UserIDHeader string `split_words:"true" default:"X-Remote-User" envconfig:"USERID_HEADER"`
	GroupsHeader string `split_words:"true" default:"X-Remote-Group"`

	// Upstream; empty means check-only mode
	UpstreamURL *url.URL `split_words:"true"`

	// Infra
	Hostname           string `split_words:"true" envconfig:"SERVER_HOSTNAME"`
	Port               int    `split_words:"true" default:"8080" envconfig:"SERVER_PORT"`
	ReadinessProbePort int    `split_words:"true" default:"8081"`
	LogLevel           string `split_words:"true" default:"INFO"`
}

func ParseConfig() (*Config, error) {

	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}

	if !validLogLevel(c.LogLevel) {
		return nil, errors.Errorf("unsupported value for the log level: LOG_LEVEL=%s", c.LogLevel)
	}
	if c.ReviewTimeout < 0 {
		return nil, errors.Errorf("REVIEW_TIMEOUT must not be negative, got %s", c.ReviewTimeout)
	}
	if !validOptionalURL(c.ReviewWebhookURL) {
		return nil, errors.Errorf("REVIEW_WEBHOOK_URL must be an absolute URL, got %q", c.ReviewWebhookURL)
	}
	if !validOptionalURL(c.UpstreamURL) {
		return nil, errors.Errorf("UPSTREAM_URL must be an absolute URL, got %q", c.UpstreamURL)
	}

	c.Audiences = trimSpaceFromStringSliceElements(c.Audiences)
	c.AuthorizedUsernames = trimSpaceFromStringSliceElements(c.AuthorizedUsernames)

	if c.AllowlistPath != "" {
		a, err := authorizer.LoadAllowlist(c.AllowlistPath)
		if err != nil {
			return nil, err
		}
		c.Audiences = mergeUnique(c.Audiences, trimSpaceFromStringSliceElements(a.Audiences))
		c.AuthorizedUsernames = mergeUnique(c.AuthorizedUsernames,
			trimSpaceFromStringSliceElements(a.Usernames))
	}

	return &c, nil
}

// HasURL reports whether an optional URL setting was given. envconfig
// allocates URL pointers even for unset variables.
func HasURL(u *url.URL) bool {
	return u != nil && u.String() != ""
}

func validOptionalURL(u *url.URL) bool {
	if !HasURL(u) {
		return true
	}
	return u.IsAbs() && u.Host != ""
}

// validLogLevel() examines if the admins have configured a valid value for the
// LOG_LEVEL envvar.
func validLogLevel(level string) bool {
	switch strings.ToUpper(level) {
	case "FATAL", "ERROR", "WARN", "INFO", "DEBUG":
		return true
	}
	return false
}
