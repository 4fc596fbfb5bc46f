// Package electionengine runs the election lifecycle: creation, the staged
// status machine, candidate rosters, voter registration review, exactly-once
// ballot casting with verifiable receipts, and winner finalization.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: commands/queries/workers using explicit ports
// - ports: stable boundaries for persistence, access checks, and events
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Role and organization data arrives through the AccessDirectory port as a
//   projection; this module never imports identity-access packages.
// - All lifecycle decisions use the timestamp supplied on the command, never
//   the wall clock.
package electionengine
