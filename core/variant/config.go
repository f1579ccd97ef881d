package variant

import "time"

// Backend names selecting where the upstream datasets are read from.
const (
	BackendDatabase = "database"
	BackendSnapshot = "snapshot"
)

// Config holds the resolution engine settings.
type Config struct {
	// Backend is the dataset backend: "database" or "snapshot".
	Backend string `mapstructure:"backend" default:"database" validate:"oneof=database snapshot"`
	// EnrichmentBatchSize bounds concurrent assignment fetches during aggregation.
	EnrichmentBatchSize int `mapstructure:"enrichment_batch_size" default:"10" validate:"gte=1,lte=100"`
	// FetchTimeoutSeconds bounds one upstream fetch round.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" default:"10" validate:"gte=1"`
}

// FetchTimeout returns the fetch timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
