package app

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"travel/internal/config"
)

// NewNewRelicApp starts the APM agent. It returns nil, nil when New Relic is disabled
// or no license key is configured.
func NewNewRelicApp(cfg config.NewRelicConfig) (*newrelic.Application, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return nil, nil
	}

	return newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
}
