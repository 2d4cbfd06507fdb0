package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	n.Notify(context.Background(), Success("Paciente agregado", ""))
	n.Notify(context.Background(), Error("No se pudo guardar el paciente"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if entry["level"] != "warn" || entry["notice_level"] != "error" {
		t.Errorf("unexpected levels %v / %v", entry["level"], entry["notice_level"])
	}
	if entry["description"] != "No se pudo guardar el paciente" {
		t.Errorf("unexpected description %v", entry["description"])
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	if r.Last() != (Notice{}) {
		t.Error("expected zero notice from empty recorder")
	}

	r.Notify(context.Background(), Success("Receta guardada", ""))
	r.Notify(context.Background(), Error("No se pudo guardar la receta"))

	if len(r.Notices()) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(r.Notices()))
	}
	if r.Last().Level != LevelError {
		t.Errorf("expected last notice to be an error, got %s", r.Last().Level)
	}
}

func TestWrap(t *testing.T) {
	env := Wrap(map[string]string{"id": "1"}, Success("Paciente actualizado", ""))
	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(body), `"title":"Paciente actualizado"`) {
		t.Errorf("expected notice in body, got %s", body)
	}
}
