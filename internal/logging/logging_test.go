package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-widgettweaks/internal/logging"
)

func TestNew_SplitsByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	log, err := logging.New(logging.Config{Level: logging.LevelNormal}, &out, &errOut)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	log.Debug("hidden")
	log.Info("rendered", zap.String("field", "email"))
	log.Error("failed")

	if strings.Contains(out.String(), "hidden") {
		t.Fatalf("debug entry written at normal level: %q", out.String())
	}
	if !strings.Contains(out.String(), "rendered") || !strings.Contains(out.String(), `"field": "email"`) {
		t.Fatalf("info entry missing: %q", out.String())
	}
	if strings.Contains(out.String(), "failed") {
		t.Fatalf("error entry written to out: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "failed") {
		t.Fatalf("error entry missing from errOut: %q", errOut.String())
	}
}

func TestNew_Levels(t *testing.T) {
	var out bytes.Buffer
	log, err := logging.New(logging.Config{Level: logging.LevelDebug}, &out, &out)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Debug("visible")
	if !strings.Contains(out.String(), "visible") {
		t.Fatalf("debug entry missing: %q", out.String())
	}

	out.Reset()
	log, err = logging.New(logging.Config{Level: logging.LevelNone}, &out, &out)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Error("quiet")
	if out.Len() != 0 {
		t.Fatalf("none level wrote %q", out.String())
	}

	if _, err := logging.New(logging.Config{Level: "loud"}, &out, &out); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
