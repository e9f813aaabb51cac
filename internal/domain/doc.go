// Package domain defines the core business types for the email enrichment
// engine.
//
// Types in this package are pure value objects with no network, storage, or
// HTTP concerns. They are the shared language between the name normalizer,
// the pattern engine, the verification service, and the batch orchestrator.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No http.Request, no context.Context in struct fields
//   - JSON tags are allowed (they're metadata, not behavior)
//   - Pure functions on the types are allowed (rendering, validation)
//   - Constants and enums belong here
package domain
