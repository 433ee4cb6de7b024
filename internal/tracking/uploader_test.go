package tracking

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"eyetrack/internal/facility"
	"eyetrack/internal/logging"
	"eyetrack/internal/testsupport"
	"eyetrack/internal/videofiles"
)

func TestUploadRecoversAfterCopyFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	registry := &countingRegistry{Registry: store}
	transfer := &flakyTransfer{inner: LocalTransfer{Verify: true}, failOn: 3}
	resolver := NewJobResolver(registry, store, cfg.Registry.Owner, cfg.Registry.SubjectID, logging.NewNop())
	uploader := NewUploader(resolver, store, transfer, cfg.Paths.IntakeDir, cfg.Paths.TriggerDir, logging.NewNop())

	testsupport.WriteRawSession(t, cfg, "DRpilot_644864_20230201")
	session, err := NewSession(cfg, "DRpilot_644864_20230201")
	if err != nil {
		t.Fatal(err)
	}

	err = uploader.Upload(context.Background(), session)
	if !errors.Is(err, errCopyFailed) {
		t.Fatalf("expected copy failure, got %v", err)
	}
	state := testsupport.MustLoadState(t, store, session.Name)
	if !state.HasJob() || state.Started {
		t.Fatalf("expected job without started flag, got %+v", state)
	}
	if _, err := os.Stat(facility.TriggerPath(cfg.Paths.TriggerDir, state.JobID)); !os.IsNotExist(err) {
		t.Fatalf("trigger must not exist after failed upload, stat err=%v", err)
	}

	if err := uploader.Upload(context.Background(), session); err != nil {
		t.Fatalf("retry Upload: %v", err)
	}
	after := testsupport.MustLoadState(t, store, session.Name)
	if after.JobID != state.JobID || !after.Started {
		t.Fatalf("unexpected state after retry: %+v", after)
	}
	if registry.createCount() != 1 {
		t.Fatalf("CreateJob called %d times, want 1", registry.createCount())
	}

	for _, name := range testsupport.DefaultRawFiles {
		if _, err := os.Stat(filepath.Join(cfg.Paths.IntakeDir, name)); err != nil {
			t.Fatalf("expected %s in intake: %v", name, err)
		}
	}
	manifest, err := facility.ReadManifest(facility.ManifestPath(cfg.Paths.IntakeDir, after.JobID))
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(manifest.Entries) != 6 {
		t.Fatalf("expected 6 manifest entries, got %d", len(manifest.Entries))
	}
	if name, _ := manifest.Filename(videofiles.EyeCamJSON); name != "Eye_20230201T122604.json" {
		t.Fatalf("eye_cam_json = %q", name)
	}
	trigger, err := facility.ReadTrigger(facility.TriggerPath(cfg.Paths.TriggerDir, after.JobID))
	if err != nil {
		t.Fatalf("ReadTrigger: %v", err)
	}
	if trigger.SessionID != after.JobID || trigger.Location != cfg.Paths.IntakeDir {
		t.Fatalf("unexpected trigger: %+v", trigger)
	}
}

func TestUploadRejectsAmbiguousRawDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	retriever := New(cfg, store, logging.NewNop())

	testsupport.WriteRawSession(t, cfg, "DRpilot_644864_20230201", "Eye_A.mp4", "Eye_B.mp4")
	session, _ := NewSession(cfg, "DRpilot_644864_20230201")

	err := retriever.Upload(context.Background(), session)
	var cerr *videofiles.ClassificationError
	if !errors.As(err, &cerr) || cerr.Kind != videofiles.KindDuplicate {
		t.Fatalf("expected duplicate classification error, got %v", err)
	}
	entries, _ := os.ReadDir(cfg.Paths.IntakeDir)
	for _, entry := range entries {
		if !entry.IsDir() {
			t.Fatalf("nothing should be copied for an ambiguous session, found %s", entry.Name())
		}
	}
}
