package common

import (
	"fmt"

	"github.com/caarlos0/env/v10"

	"github.com/cy2753/edgar8k/client"
)

// NewClient builds an EDGAR client with the User-Agent SEC requires. Set
// EDGAR_UA to your real contact, like "Sally Yang sally@example.edu".
func NewClient() (*client.Client, error) {
	cfg := struct {
		UA string `env:"EDGAR_UA,notEmpty"`
	}{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse edgar8k envs: %w", err)
	}
	return client.New().WithUserAgent(cfg.UA), nil
}
