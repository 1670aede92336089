// Package services defines shared utilities consumed by the batch components
// and their external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, instruction line numbers, and output
//     names for logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     parse, resolution, validation, verification, or configuration problems.
//
// Only configuration failures are fatal to a batch; every other marker is
// local to the job that produced it.
package services
