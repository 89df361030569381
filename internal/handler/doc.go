// Package handler implements HTTP request handlers for the digital thread API.
//
// # Handlers
//
// ThreadHandler serves artifact lookups, traceability relations, snapshot
// statistics, the flow, network and timeline views, export downloads and the
// manual reload trigger. RegisterRoutes mounts everything under /api.
//
// Middleware provides panic recovery, CORS, request logging with request ids
// and gzip compression of API responses.
//
// # Caching
//
// Read endpoints carry the snapshot digest as a strong ETag and answer
// If-None-Match with 304 while the snapshot is unchanged. Timelines bounded by a
// relative window depend on the clock and are not tagged.
//
// # Response Format
//
// Success responses return JSON data with status 200.
// Error responses return JSON with {error, details} structure.
//
// # Server-Sent Events
//
// The /events endpoint (see package hub) streams snapshot reload
// notifications so clients know when to refetch.
package handler
