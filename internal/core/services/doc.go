// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline service runs documents through section location,
// extraction, deduplication and reconciliation; the reconciler merges
// extracted claims into the persistent roster.
package services
