package obs

import (
	"fmt"
	"fuel-trip-service/internal/config"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// NewRelicApp starts the New Relic agent, or returns nil when disabled.
func NewRelicApp(cfg config.NewRelicConfig) (*newrelic.Application, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return nil, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("init new relic: %w", err)
	}
	return app, nil
}
