package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultWindowsValid(t *testing.T) {
	if err := DefaultWindows().Validate(); nil != err {
		t.Fatalf("defaults rejected: %v", err)
	}
}

func TestValidateOrdering(t *testing.T) {
	tests := map[string]func(w *Windows){
		"zero perfect":         func(w *Windows) { w.Perfect = 0 },
		"perfect above great":  func(w *Windows) { w.Perfect = w.Great + time.Millisecond },
		"perfect equals great": func(w *Windows) { w.Perfect = w.Great },
		"great equals good":    func(w *Windows) { w.Great = w.Good },
		"good above miss":      func(w *Windows) { w.Good = w.Miss + time.Millisecond },
		"negative tolerance":   func(w *Windows) { w.ChordTolerance = -time.Millisecond },
		"negative grace":       func(w *Windows) { w.SweepGrace = -time.Millisecond },
		"short lookahead":      func(w *Windows) { w.Lookahead = w.Miss - time.Millisecond },
	}
	for name, mutate := range tests {
		w := DefaultWindows()
		mutate(&w)
		if err := w.Validate(); !errors.Is(err, ErrInvalidWindows) {
			t.Errorf("%s: expected ErrInvalidWindows, got %v", name, err)
		}
	}
}

func TestParseWindowsOverlaysDefaults(t *testing.T) {
	w, err := ParseWindows([]byte("perfect: 50ms\nmiss: 400ms\nsweep_grace: 10ms\n"))
	if nil != err {
		t.Fatal(err)
	}
	if w.Perfect != 50*time.Millisecond || w.Miss != 400*time.Millisecond || w.SweepGrace != 10*time.Millisecond {
		t.Errorf("overrides not applied: %+v", w)
	}
	if w.Great != DefaultWindows().Great {
		t.Errorf("default great lost: %v", w.Great)
	}
}

func TestParseWindowsEmpty(t *testing.T) {
	w, err := ParseWindows(nil)
	if nil != err {
		t.Fatal(err)
	}
	if w != DefaultWindows() {
		t.Errorf("expected defaults, got %+v", w)
	}
}

func TestParseWindowsRejects(t *testing.T) {
	if _, err := ParseWindows([]byte("perfct: 50ms\n")); nil == err {
		t.Error("expected unknown key to be rejected")
	}
	if _, err := ParseWindows([]byte("perfect: 500ms\n")); !errors.Is(err, ErrInvalidWindows) {
		t.Errorf("expected ErrInvalidWindows, got %v", err)
	}
}

func TestLoadWindows(t *testing.T) {
	w, err := LoadWindows("")
	if nil != err || w != DefaultWindows() {
		t.Fatalf("empty path: %+v %v", w, err)
	}

	path := filepath.Join(t.TempDir(), "windows.yaml")
	if err := os.WriteFile(path, []byte("chord_tolerance: 60ms\n"), 0o644); nil != err {
		t.Fatal(err)
	}
	w, err = LoadWindows(path)
	if nil != err {
		t.Fatal(err)
	}
	if w.ChordTolerance != 60*time.Millisecond {
		t.Errorf("got %v", w.ChordTolerance)
	}

	if _, err := LoadWindows(filepath.Join(t.TempDir(), "missing.yaml")); nil == err {
		t.Error("expected missing file to fail")
	}
}

func TestParsePlay(t *testing.T) {
	events := filepath.Join(t.TempDir(), "song.json")
	if err := os.WriteFile(events, []byte("{}"), 0o644); nil != err {
		t.Fatal(err)
	}

	o, err := Parse([]string{"--log-level", "debug", "play", events, "-r", "1.5", "--offset=-15ms", "--keys-single", "asdf"})
	if nil != err {
		t.Fatal(err)
	}
	if o.Command != CommandPlay || o.Events != events {
		t.Errorf("got command %q events %q", o.Command, o.Events)
	}
	if o.Rate != 1.5 || o.Offset != -15*time.Millisecond || o.Delay != 1500*time.Millisecond {
		t.Errorf("got rate %v offset %v delay %v", o.Rate, o.Offset, o.Delay)
	}
	if o.Level() != slog.LevelDebug {
		t.Errorf("got level %v", o.Level())
	}
	if lane := o.KeyLane('d', 4); lane != 2 {
		t.Errorf("expected d on lane 2, got %d", lane)
	}
	if lane := o.KeyLane('x', 4); lane != -1 {
		t.Errorf("expected unbound key, got %d", lane)
	}
	if lane := o.KeyLane(';', 8); lane != 7 {
		t.Errorf("expected ; on lane 7, got %d", lane)
	}
	if keys := o.Keys(5); string(keys) != "asdf" {
		t.Errorf("expected fallback to 4 lane keys, got %q", string(keys))
	}

	if _, err := Parse([]string{"play", events, "-r", "0"}); nil == err {
		t.Error("expected zero rate to be rejected")
	}
}

func TestParseReplayDefaults(t *testing.T) {
	events := filepath.Join(t.TempDir(), "song.json")
	if err := os.WriteFile(events, []byte("{}"), 0o644); nil != err {
		t.Fatal(err)
	}
	o, err := Parse([]string{"replay", events, "-D", "Hard"})
	if nil != err {
		t.Fatal(err)
	}
	if o.Command != CommandReplay || o.Difficulty != "Hard" || o.Journal != "./journal.db" {
		t.Errorf("got %+v", o)
	}
	if o.Level() != slog.LevelInfo {
		t.Errorf("got level %v", o.Level())
	}
}
