package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitAndLevelString(t *testing.T) {
	defer Init("info", "json")

	cases := map[string]string{
		"debug":    "debug",
		"WARN":     "warn",
		"warning":  "warn",
		"Error":    "error",
		"fatal":    "fatal",
		"nonsense": "info",
	}
	for in, want := range cases {
		Init(in, "")
		if got := LevelString(); got != want {
			t.Fatalf("Init(%q): LevelString() = %q, want %q", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	setOutput(zapcore.AddSync(&buf))
	defer func() {
		Init("info", "json")
		setOutput(zapcore.Lock(os.Stdout))
	}()

	Init("warn", "")
	Debugf("debug-msg")
	Infof("info-msg %d", 1)
	Warnf("warn-msg %s", "x")
	Errorf("error-msg")

	out := buf.String()
	if strings.Contains(out, "debug-msg") || strings.Contains(out, "info-msg") {
		t.Fatalf("debug/info messages should be suppressed at warn level: %q", out)
	}
	if !strings.Contains(out, "warn-msg x") {
		t.Fatalf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "error-msg") {
		t.Fatalf("error message missing: %q", out)
	}

	Init("info", "")
	buf.Reset()
	Info("hello")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("expected json info line, got: %q", buf.String())
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	setOutput(zapcore.AddSync(&buf))
	defer func() {
		Init("info", "json")
		setOutput(zapcore.Lock(os.Stdout))
	}()

	L().Info("request", zap.Int("status", 201))
	if !strings.Contains(buf.String(), `"status":201`) {
		t.Fatalf("expected structured field, got: %q", buf.String())
	}
}
