// Package preflight provides readiness checks for the filesystem locations
// eyetrack shares with the acquisition rigs and the processing facility.
//
// The CLI "eyetrack check" command runs every check and prints a table. The
// fetch and upload commands run RunAll first and refuse to start when a
// required check fails, so a misconfigured intake path is reported before a
// job is created.
package preflight
