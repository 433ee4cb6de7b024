// Package main hosts the eyetrack CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, opens the local session
// store, and hands sessions to the tracking workflow: fetch returns a result
// bundle or starts processing, wait blocks until the facility finishes, and
// upload forces a fresh handoff. The files, status, and check commands are
// read-only views used to diagnose a session before or after a handoff.
//
// Keep this package lean: new behavior belongs in the internal packages and
// is surfaced here through dedicated commands or flags.
package main
