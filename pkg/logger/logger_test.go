package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"info":    zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNew_WritesServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Service: "notice-board", Output: &buf})

	log.Debug().Str("k", "v").Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if line["service"] != "notice-board" {
		t.Errorf("expected service field, got %v", line["service"])
	}
	if line["message"] != "hello" || line["k"] != "v" {
		t.Errorf("unexpected line %v", line)
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Output: &buf})

	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered, got %q", buf.String())
	}
}

func TestInit_FirstCallWins(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var first, second bytes.Buffer
	a := Init(Options{Output: &first})
	b := Init(Options{Output: &second})

	a.Info().Msg("x")
	b.Info().Msg("y")
	if first.Len() == 0 || second.Len() != 0 {
		t.Errorf("expected output only in the first writer: first=%q second=%q", first.String(), second.String())
	}
}

func TestNew_UsesNanosecondTimestamps(t *testing.T) {
	zerolog.TimeFieldFormat = time.RFC3339
	t.Cleanup(func() { zerolog.TimeFieldFormat = time.RFC3339Nano })

	var buf bytes.Buffer
	log := New(Options{Output: &buf})
	log.Info().Msg("tick")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	ts, _ := line["time"].(string)
	if _, err := time.Parse(time.RFC3339Nano, ts); err != nil {
		t.Fatalf("unexpected timestamp %q: %v", ts, err)
	}
	if zerolog.TimeFieldFormat != time.RFC3339Nano {
		t.Errorf("expected New to set RFC3339Nano, got %q", zerolog.TimeFieldFormat)
	}
}
