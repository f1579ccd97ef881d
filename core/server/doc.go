// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure and converts it into fiber settings.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key protecting every route,
// request timeouts and the body size limit.
//
// # Usage
//
//	app := fiber.New(cfg.Server.Fiber())
//	app.Listen(cfg.Server.Address())
package server
