// Package metrics exposes the Prometheus collectors of the service.
//
// Collectors are registered on an explicit registry so that tests and
// commands can create isolated instances. The fiber middleware records
// request counts and durations labeled by route pattern, and Handler serves
// the registry through fasthttpadaptor.
//
// A nil *Metrics is valid; its Record methods do nothing.
package metrics
