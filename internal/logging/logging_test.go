package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": Debug, "warn": Warn, "warning": Warn,
		"critical": Critical, "error": Critical, "info": Info, "": Info, "bogus": Info,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_GatesBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Warn)
	l.Debugf("hidden")
	l.Infof("also hidden")
	if buf.Len() != 0 {
		t.Errorf("buf = %q, want empty (below threshold)", buf.String())
	}
	l.Warnf("visible %d", 1)
	if !strings.Contains(buf.String(), "visible 1") {
		t.Errorf("buf = %q, want it to contain %q", buf.String(), "visible 1")
	}
}

func TestLogger_WarnOnce_FiresOnlyOnce(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Debug)
	for i := 0; i < 5; i++ {
		l.WarnOnce("key", "residual mass drawn")
	}
	if n := strings.Count(buf.String(), "residual mass drawn"); n != 1 {
		t.Errorf("WarnOnce fired %d times, want 1", n)
	}
}

func TestLogger_WarnOnce_DistinctKeysFireIndependently(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Debug)
	l.WarnOnce("a", "first")
	l.WarnOnce("b", "second")
	if n := strings.Count(buf.String(), "WARN:"); n != 2 {
		t.Errorf("got %d warnings, want 2 for distinct keys", n)
	}
}
