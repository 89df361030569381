// Package service implements the application layer of the digital thread
// server.
//
// ThreadService owns the current thread snapshot. A snapshot is an immutable
// thread.Store plus the digest of the bytes it was decoded from. Reload builds
// a complete new store off to the side and swaps it in atomically, so readers
// always see either the old or the new snapshot and never a partial one. A
// failed reload leaves the previous snapshot in place.
//
// Queries and views are answered from whichever snapshot is current when the
// call starts. The network view and its endpoint index are built once with
// each snapshot; flow and timeline views are recomputed per call.
//
// # Event System
//
// ThreadService publishes snapshot lifecycle events via EventBus for real-time
// updates to connected clients via Server-Sent Events (SSE).
//
// # Design Principles
//
// - The store and view packages stay pure; logging and metrics live here
// - Readers never block on a reload
// - Context-aware for cancellation of slow data sources
package service
