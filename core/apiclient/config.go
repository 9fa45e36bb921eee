package apiclient

import "time"

// Config holds upstream API settings.
type Config struct {
	BaseURL string        `env:"API_URL,required"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
}

// NewFromConfig creates a client from configuration.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	return New(cfg.BaseURL, append([]Option{WithTimeout(cfg.Timeout)}, opts...)...)
}
