// Package facility implements the file contract with the external processing
// facility: the intake manifest, the trigger sentinel that starts a job, and
// discovery of finished outputs under a job's output root.
package facility
