// Package domain defines the core domain types for the digital thread dashboard.
//
// This package contains the value types that describe aerospace
// systems-engineering artifacts and the derived shapes the view builder
// produces from them.
//
// # Core Types
//
// Artifact is one node in the thread: a requirement, function, logical block,
// CAD model, BOM entry, simulation, test or result. Artifacts reference each
// other through directed linkedItems ids and carry an ordered log of
// ChangeEvent records.
//
// Kind is the closed set of artifact kinds. CanonicalKindOrder gives the
// advisory lifecycle order Scenario -> Requirement -> ... -> Result used as the
// default column order of the flow view. The order is display-only and is never
// enforced on links.
//
// # Derived Shapes
//
// Edge is one resolved directed link of the network view. Event is one entry of
// the timeline view. TimeWindow is the relative window (1W, 1M, 3M, 6M, 1Y, All)
// used to bound the timeline.
//
// # Dates
//
// Dates are carried as the strings supplied by the data source and parsed with
// ParseDate when a view needs them. An unparseable date is a per-item condition,
// never a load failure.
//
// # Design Principles
//
// - Plain value types, no behavior that touches I/O
// - Presentation concerns (icons, colors) are owned by the UI layer, not here
package domain
