package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{log.InfoLevel, func(l *log.Logger) { l.Info("grid computed") }, true},
		{log.InfoLevel, func(l *log.Logger) { l.Debug("grid computed") }, false},
		{log.DebugLevel, func(l *log.Logger) { l.Debug("grid computed") }, true},
		{log.WarnLevel, func(l *log.Logger) { l.Info("grid computed") }, false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		tt.emit(newLogger(&buf, tt.level))
		if got := strings.Contains(buf.String(), "grid computed"); got != tt.want {
			t.Errorf("level %s: logged = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.DebugLevel))

	p.step("loaded", "rows", 24)
	p.done("Rendered runs.csv", "formats", 2)

	out := buf.String()
	for _, want := range []string{"loaded", "rows=24", "Rendered runs.csv", "formats=2", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressStepHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.step("loaded")
	if buf.Len() != 0 {
		t.Errorf("step logged at info level: %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext(empty) is not log.Default()")
	}

	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), custom)) != custom {
		t.Error("loggerFromContext() did not return the attached logger")
	}
}
