package tracking

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"eyetrack/internal/logging"
	"eyetrack/internal/services"
	"eyetrack/internal/sessionstore"
	"eyetrack/internal/testsupport"
)

const sessionName = "DRpilot_644864_20230201"

type harness struct {
	store     *sessionstore.Store
	registry  *countingRegistry
	transfer  *flakyTransfer
	retriever *Retriever
	session   Session
	logs      *bytes.Buffer
}

func newHarness(t *testing.T, states func(StateStore) StateStore) (*harness, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Tracking.LockTimeout = 1
	store := testsupport.MustOpenStore(t, cfg)
	registry := &countingRegistry{Registry: store}
	transfer := &flakyTransfer{inner: LocalTransfer{Verify: true}}
	var stateStore StateStore = store
	if states != nil {
		stateStore = states(store)
	}
	testsupport.WriteRawSession(t, cfg, sessionName)
	session, err := NewSession(cfg, sessionName)
	if err != nil {
		t.Fatal(err)
	}
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := &harness{
		store:     store,
		registry:  registry,
		transfer:  transfer,
		retriever: NewWithCollaborators(cfg, registry, stateStore, transfer, logger),
		session:   session,
		logs:      logs,
	}
	return h, cfg.LockDir()
}

// records returns the decoded log records with the given event type.
func (h *harness) records(t *testing.T, eventType string) []map[string]any {
	t.Helper()
	var out []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(h.logs.Bytes()))
	for scanner.Scan() {
		var record map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("decode log record %q: %v", scanner.Text(), err)
		}
		if record[logging.FieldEventType] == eventType {
			out = append(out, record)
		}
	}
	return out
}

func (h *harness) outputRoot(t *testing.T) string {
	t.Helper()
	root, err := h.retriever.OutputRoot(context.Background(), h.session)
	if err != nil {
		t.Fatalf("OutputRoot: %v", err)
	}
	if root == "" {
		t.Fatal("expected a job output root")
	}
	return root
}

func TestFetchFreshSessionUploadsAndReportsPending(t *testing.T) {
	h, _ := newHarness(t, nil)

	result, err := h.retriever.Fetch(context.Background(), h.session)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Status != StatusPending || result.Bundle != nil {
		t.Fatalf("expected pending result, got %+v", result)
	}
	if h.transfer.callCount() != len(testsupport.DefaultRawFiles) {
		t.Fatalf("expected %d copies, got %d", len(testsupport.DefaultRawFiles), h.transfer.callCount())
	}
	state := testsupport.MustLoadState(t, h.store, sessionName)
	if !state.Started || state.JobID != result.JobID {
		t.Fatalf("unexpected state %+v for result %+v", state, result)
	}
}

func TestFetchStartedSessionDoesNotReupload(t *testing.T) {
	h, _ := newHarness(t, nil)
	ctx := context.Background()

	if _, err := h.retriever.Fetch(ctx, h.session); err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	copies := h.transfer.callCount()

	result, err := h.retriever.Fetch(ctx, h.session)
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if result.Status != StatusPending {
		t.Fatalf("expected pending, got %+v", result)
	}
	if h.transfer.callCount() != copies {
		t.Fatalf("second Fetch copied files again (%d -> %d)", copies, h.transfer.callCount())
	}
	if h.registry.createCount() != 1 {
		t.Fatalf("CreateJob called %d times, want 1", h.registry.createCount())
	}
}

func TestFetchReturnsBundleWhenOutputExists(t *testing.T) {
	h, _ := newHarness(t, nil)
	ctx := context.Background()

	if _, err := h.retriever.Fetch(ctx, h.session); err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	root := h.outputRoot(t)
	second := testsupport.WriteTrackingOutput(t, root, "face_tracking", "Face_ellipse.h5")
	first := testsupport.WriteTrackingOutput(t, root, "eye_tracking", "Eye_ellipse.h5")
	testsupport.WriteTrackingOutput(t, root, "eye_tracking", "Eye_dlc.h5")

	result, err := h.retriever.Fetch(ctx, h.session)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !result.Ready() {
		t.Fatalf("expected ready result, got %+v", result)
	}
	if result.Bundle.EllipseOutput != first || result.Bundle.EllipseOutput == second {
		t.Fatalf("unexpected output %q", result.Bundle.EllipseOutput)
	}
	wantMeta := filepath.Join(h.session.RawDir, "Eye_20230201T122604.json")
	if result.Bundle.RawMetadata != wantMeta {
		t.Fatalf("raw metadata = %q, want %q", result.Bundle.RawMetadata, wantMeta)
	}

	data, err := json.Marshal(result.Bundle)
	if err != nil {
		t.Fatal(err)
	}
	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		t.Fatal(err)
	}
	if keys["raw_eye_tracking_video_meta_data"] != wantMeta || keys["raw_eye_tracking_filepath"] != first {
		t.Fatalf("unexpected bundle json: %s", data)
	}
}

func TestFetchRedoesInterruptedUpload(t *testing.T) {
	h, _ := newHarness(t, nil)
	h.transfer.failOn = 2
	ctx := context.Background()

	if _, err := h.retriever.Fetch(ctx, h.session); !errors.Is(err, errCopyFailed) {
		t.Fatalf("expected copy failure, got %v", err)
	}
	phase, state, err := h.retriever.Inspect(ctx, h.session)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if phase != PhaseUploading || state.Started {
		t.Fatalf("expected uploading phase, got %s %+v", phase, state)
	}

	result, err := h.retriever.Fetch(ctx, h.session)
	if err != nil {
		t.Fatalf("Fetch after failure: %v", err)
	}
	if result.Status != StatusPending || result.JobID != state.JobID {
		t.Fatalf("unexpected result %+v", result)
	}
	if h.registry.createCount() != 1 {
		t.Fatalf("CreateJob called %d times, want 1", h.registry.createCount())
	}
}

func TestFailedRetriggerKeepsSessionStarted(t *testing.T) {
	h, _ := newHarness(t, nil)
	ctx := context.Background()

	first, err := h.retriever.Fetch(ctx, h.session)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	h.transfer.failOn = h.transfer.callCount() + 2

	if err := h.retriever.Upload(ctx, h.session); !errors.Is(err, errCopyFailed) {
		t.Fatalf("expected copy failure on re-trigger, got %v", err)
	}
	phase, state, err := h.retriever.Inspect(ctx, h.session)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if phase != PhaseAwaiting || !state.Started || state.JobID != first.JobID {
		t.Fatalf("re-trigger failure changed phase: %s %+v", phase, state)
	}

	failures := h.records(t, "upload_failed")
	if len(failures) != 1 {
		t.Fatalf("expected one upload_failed record, got %d", len(failures))
	}
	if failures[0]["level"] != "ERROR" || failures[0]["retryable"] != true || failures[0][logging.FieldErrorHint] == nil {
		t.Fatalf("unexpected upload_failed record: %v", failures[0])
	}

	copies := h.transfer.callCount()
	result, err := h.retriever.Fetch(ctx, h.session)
	if err != nil {
		t.Fatalf("Fetch after failed re-trigger: %v", err)
	}
	if result.Status != StatusPending {
		t.Fatalf("expected pending, got %+v", result)
	}
	if h.transfer.callCount() != copies {
		t.Fatalf("Fetch re-uploaded a started session (%d -> %d copies)", copies, h.transfer.callCount())
	}
}

func TestFetchReportsMissingResultWhenStartIsNotRecorded(t *testing.T) {
	h, _ := newHarness(t, func(s StateStore) StateStore { return forgetfulStates{StateStore: s} })

	_, err := h.retriever.Fetch(context.Background(), h.session)
	var missing *MissingResultError
	if !errors.As(err, &missing) || missing.Session != sessionName {
		t.Fatalf("expected MissingResultError, got %v", err)
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatal("expected MissingResultError to match ErrNotFound")
	}
}

func TestInspectHasNoSideEffects(t *testing.T) {
	h, _ := newHarness(t, nil)

	phase, state, err := h.retriever.Inspect(context.Background(), h.session)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if phase != PhaseNotStarted || state.HasJob() {
		t.Fatalf("unexpected phase %s state %+v", phase, state)
	}
	if h.registry.createCount() != 0 || h.transfer.callCount() != 0 {
		t.Fatal("Inspect must not create jobs or copy files")
	}
}

func TestFetchTimesOutWhileSessionLocked(t *testing.T) {
	h, lockDir := newHarness(t, nil)
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		t.Fatal(err)
	}
	holder := flock.New(filepath.Join(lockDir, sessionName+".lock"))
	if err := holder.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer holder.Unlock()

	_, err := h.retriever.Fetch(context.Background(), h.session)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if h.registry.createCount() != 0 {
		t.Fatal("no job should be created while another run holds the lock")
	}
}

func TestWaitReturnsWhenOutputAppears(t *testing.T) {
	h, _ := newHarness(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := h.retriever.Fetch(ctx, h.session); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	root := h.outputRoot(t)

	go func() {
		time.Sleep(200 * time.Millisecond)
		dir := filepath.Join(root, "eye_tracking")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return
		}
		_ = os.WriteFile(filepath.Join(dir, "Eye_ellipse.h5"), []byte("h5"), 0o644)
	}()

	result, err := h.retriever.Wait(ctx, h.session, 2*time.Second)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !result.Ready() {
		t.Fatalf("expected ready result, got %+v", result)
	}
}
