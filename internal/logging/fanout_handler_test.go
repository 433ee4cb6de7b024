package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestNewFanoutHandlerCollapsesNil(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}

	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newFanoutHandler(nil, inner, nil); h != inner {
		t.Fatalf("expected single non-nil handler to be returned unwrapped, got %T", h)
	}
}

func TestFanoutHandlerRespectsEachLevel(t *testing.T) {
	var consoleBuf, fileBuf bytes.Buffer
	console := slog.NewJSONHandler(&consoleBuf, &slog.HandlerOptions{Level: slog.LevelWarn})
	file := slog.NewJSONHandler(&fileBuf, &slog.HandlerOptions{Level: slog.LevelDebug})

	h := newFanoutHandler(console, file)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected fanout to be enabled when any handler accepts debug")
	}

	logger := slog.New(h)
	logger.Debug("copy verified", slog.String("role", "eye_tracking"))

	if consoleBuf.Len() != 0 {
		t.Fatalf("warn handler received debug record: %s", consoleBuf.String())
	}
	if !bytes.Contains(fileBuf.Bytes(), []byte(`"role":"eye_tracking"`)) {
		t.Fatalf("debug handler missing record: %s", fileBuf.String())
	}
}

func TestFanoutHandlerPropagatesAttrsAndGroups(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h := TeeHandler(slog.NewJSONHandler(&buf1, nil), slog.NewJSONHandler(&buf2, nil))

	logger := slog.New(h).With(slog.String(FieldSession, "session_01")).WithGroup("upload")
	logger.Info("files copied", slog.Int("count", 6))

	for name, buf := range map[string]*bytes.Buffer{"first": &buf1, "second": &buf2} {
		if !bytes.Contains(buf.Bytes(), []byte(`"session":"session_01"`)) {
			t.Errorf("%s handler missing session attr: %s", name, buf.String())
		}
		if !bytes.Contains(buf.Bytes(), []byte(`"upload":{"count":6}`)) {
			t.Errorf("%s handler missing grouped attr: %s", name, buf.String())
		}
	}
}
