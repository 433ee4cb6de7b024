// Package services defines shared utilities consumed by the tracking workflow
// and its collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp session names, job identifiers, workflow
//     steps, and correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can tell
//     operator-facing failures (validation, not found) from retryable ones.
//
// Use these helpers when wiring new workflow logic so operational behaviour
// (error handling, observability, retries) stays uniform.
package services
