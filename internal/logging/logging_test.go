package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriterLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, false)
	log.Debug().Msg("hidden")
	log.Info().Str("level_name", "world").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered at info level: %s", out)
	}
	if !strings.Contains(out, `"level_name":"world"`) {
		t.Errorf("expected JSON field in output: %s", out)
	}
}

func TestNewWithWriterDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, true)
	log.Debug().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug logger dropped debug message: %q", buf.String())
	}
}
