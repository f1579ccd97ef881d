// Package logger builds the zap logger used across the service.
//
// A "debug" level selects zap's development config, any other level the
// production config. Format chooses json or console encoding.
//
// WithRayID returns a child logger carrying the request's ray_id so that
// every line of one HTTP request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "json"})
//	log.Info("Server started")
//
//	l := logger.WithRayID(log, c)
//	l.Warn("Schema built from partial data", zap.Strings("degraded", schema.Degraded))
package logger
