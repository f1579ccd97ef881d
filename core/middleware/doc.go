// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key check on the X-API-Key header. Paths listed in Skip,
//     such as the metrics route, stay public.
//   - rayid: Assigns every request a UUID ray ID (or keeps a valid incoming
//     one), stores it in the request locals and echoes it in the response.
//
// RayID is registered first so that every later log line carries the ID.
package middleware
