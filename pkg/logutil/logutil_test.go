package logutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLoggerCreatedBeforeOutputIsSet(t *testing.T) {
	logger := GetLogger("test").With(zap.String("doc", "p1"))
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutputFile("") })

	logger.Info("saved", zap.Int("slides", 3))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output %q is not JSON: %v", buf.String(), err)
	}
	for key, want := range map[string]any{"logger": "test", "msg": "saved", "doc": "p1", "slides": 3.0} {
		if entry[key] != want {
			t.Errorf("entry[%q] = %v, want %v", key, entry[key], want)
		}
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutputFile("")
		SetLevel("info")
	})
	logger := GetLogger("test")

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug entry written at info level: %q", buf.String())
	}
	if err := SetLevel("debug"); err != nil {
		t.Fatal(err)
	}
	logger.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug entry not written at debug level")
	}
	if err := SetLevel("loud"); err == nil {
		t.Errorf("SetLevel(loud) succeeded")
	}
}

func TestSetOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	if err := SetOutputFile(path); err != nil {
		t.Fatal(err)
	}
	GetLogger("test").Warn("to file")
	if err := SetOutputFile(""); err != nil {
		t.Fatal(err)
	}
	GetLogger("test").Warn("discarded")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "to file") || strings.Contains(string(content), "discarded") {
		t.Errorf("log file content = %q", content)
	}
}
