package logs_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"eyetrack/internal/logs"
)

const (
	recUploadA = `{"ts":"2026-10-18T09:00:00Z","level":"info","msg":"copying raw files to intake","component":"uploader","session":"session_a","job_id":"1_366122_20261018"}`
	recUploadB = `{"ts":"2026-10-18T09:00:01Z","level":"info","msg":"copying raw files to intake","component":"uploader","session":"session_b","job_id":"2_366122_20261018"}`
	recDebugA  = `{"ts":"2026-10-18T09:00:02Z","level":"debug","msg":"phase evaluated","component":"retriever","session":"session_a"}`
	recReadyA  = `{"ts":"2026-10-18T09:00:03Z","level":"info","msg":"tracking output ready","component":"retriever","session":"session_a","job_id":"1_366122_20261018"}`
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eyetrack-20261018.log")
	var content string
	for _, line := range lines {
		content += line + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestTailLastEntriesForSession(t *testing.T) {
	path := writeLog(t, recUploadA, "not json", recUploadB, recDebugA, recReadyA)

	result, err := logs.Tail(context.Background(), path, logs.TailOptions{
		Offset: -1,
		Limit:  5,
		Filter: logs.Filter{Session: "session_a"},
	})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 info entries for session_a, got %#v", result.Entries)
	}
	if result.Entries[1].Message != "tracking output ready" || result.Entries[1].Component != "retriever" {
		t.Fatalf("unexpected last entry: %#v", result.Entries[1])
	}
	if !result.Entries[0].Time.Equal(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp %v", result.Entries[0].Time)
	}
	info, _ := os.Stat(path)
	if result.Offset != info.Size() {
		t.Fatalf("offset = %d, want %d", result.Offset, info.Size())
	}
}

func TestTailLimitKeepsNewest(t *testing.T) {
	path := writeLog(t, recUploadA, recUploadB, recDebugA, recReadyA)

	result, err := logs.Tail(context.Background(), path, logs.TailOptions{
		Offset: -1,
		Limit:  2,
		Filter: logs.Filter{MinLevel: slog.LevelDebug},
	})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(result.Entries) != 2 || result.Entries[0].Raw != recDebugA || result.Entries[1].Raw != recReadyA {
		t.Fatalf("unexpected entries: %#v", result.Entries)
	}
}

func TestTailMissingFile(t *testing.T) {
	result, err := logs.Tail(context.Background(), filepath.Join(t.TempDir(), "missing.log"), logs.TailOptions{Offset: -1, Limit: 10})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(result.Entries) != 0 || result.Offset != 0 {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestTailFollowWaitsForMatchingEntry(t *testing.T) {
	path := writeLog(t, recUploadA)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	initial, err := logs.Tail(ctx, path, logs.TailOptions{Offset: -1, Limit: 1})
	if err != nil {
		t.Fatalf("initial tail: %v", err)
	}

	done := make(chan logs.TailResult, 1)
	go func(offset int64) {
		res, err := logs.Tail(ctx, path, logs.TailOptions{
			Offset: offset,
			Follow: true,
			Wait:   5 * time.Second,
			Filter: logs.Filter{JobID: "1_366122_20261018"},
		})
		if err != nil {
			t.Errorf("follow tail error: %v", err)
		}
		done <- res
	}(initial.Offset)

	time.Sleep(200 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString(recUploadB + "\n" + recReadyA + "\n"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	_ = f.Close()

	select {
	case res := <-done:
		if len(res.Entries) != 1 || res.Entries[0].Raw != recReadyA {
			t.Fatalf("unexpected follow entries: %#v", res.Entries)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("tail follow did not return")
	}
}

func TestLatestPicksNewestDailyFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"eyetrack-20261016.log", "eyetrack-20261018.log", "eyetrack-20261017.log", "other.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	path, err := logs.Latest(dir)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if filepath.Base(path) != "eyetrack-20261018.log" {
		t.Fatalf("Latest = %s", path)
	}

	empty, err := logs.Latest(t.TempDir())
	if err != nil || empty != "" {
		t.Fatalf("expected no log in empty dir, got %q, %v", empty, err)
	}
}
