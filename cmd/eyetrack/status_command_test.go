package main

import (
	"testing"

	"eyetrack/internal/testsupport"
	"eyetrack/internal/tracking"
)

func TestStatusListsRecordedSessions(t *testing.T) {
	env := setupCLITestEnv(t)
	prepareFacility(t, env.cfg)
	testsupport.WriteRawSession(t, env.cfg, "session_01")

	out, _, err := runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status before upload: %v", err)
	}
	var statuses []sessionStatus
	decodeJSON(t, out, &statuses)
	if len(statuses) != 0 {
		t.Fatalf("expected no sessions, got %+v", statuses)
	}

	if _, _, err := runCLI(t, []string{"upload", "session_01"}, env.configPath); err != nil {
		t.Fatalf("upload: %v", err)
	}

	out, _, err = runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	decodeJSON(t, out, &statuses)
	if len(statuses) != 1 {
		t.Fatalf("expected one session, got %+v", statuses)
	}
	got := statuses[0]
	if got.Session != "session_01" || got.Phase != tracking.PhaseAwaiting.String() || !got.Started || got.UpdatedAt == nil {
		t.Fatalf("unexpected status: %+v", got)
	}

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status table: %v", err)
	}
	requireContains(t, out, "session_01")
	requireContains(t, out, got.JobID)
	requireContains(t, out, "awaiting")
}

func TestStatusOfUnknownSessionIsNotStarted(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status", "session_09", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var statuses []sessionStatus
	decodeJSON(t, out, &statuses)
	if len(statuses) != 1 || statuses[0].Phase != tracking.PhaseNotStarted.String() || statuses[0].UpdatedAt != nil {
		t.Fatalf("unexpected status: %+v", statuses)
	}
}
