package metrics

// Config holds the Prometheus exposition settings.
type Config struct {
	// Enabled toggles the /metrics route and the HTTP middleware.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace" default:"inventory"`
	// Path is the exposition route.
	Path string `mapstructure:"path" default:"/metrics"`
}
