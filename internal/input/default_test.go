package input

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/eiannone/keyboard"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func lanes(r rune) int {
	for i, c := range "dfjk" {
		if r == c {
			return i
		}
	}
	return -1
}

func TestPumpAndDrain(t *testing.T) {
	keys := make(chan keyboard.KeyEvent, 8)
	out := make(chan Event, 8)
	keys <- keyboard.KeyEvent{Rune: 'd'}
	keys <- keyboard.KeyEvent{Rune: 'x'}
	keys <- keyboard.KeyEvent{Rune: 'k'}
	close(keys)
	Pump(keys, lanes, out, quiet)

	got, quit := Drain(out)
	if len(got) != 2 || got[0] != 0 || got[1] != 3 {
		t.Errorf("got lanes %v", got)
	}
	if !quit {
		t.Error("closed channel should read as quit")
	}
}

func TestPumpEscape(t *testing.T) {
	keys := make(chan keyboard.KeyEvent, 2)
	out := make(chan Event, 2)
	keys <- keyboard.KeyEvent{Rune: 'f'}
	keys <- keyboard.KeyEvent{Key: keyboard.KeyEsc}
	close(keys)
	Pump(keys, lanes, out, quiet)

	if e := <-out; e.Lane != 1 || e.Quit {
		t.Errorf("got %+v", e)
	}
	if e := <-out; !e.Quit {
		t.Errorf("expected quit, got %+v", e)
	}
}

func TestPumpStopsOnError(t *testing.T) {
	keys := make(chan keyboard.KeyEvent, 2)
	out := make(chan Event, 2)
	keys <- keyboard.KeyEvent{Err: errors.New("gone")}
	keys <- keyboard.KeyEvent{Rune: 'd'}
	Pump(keys, lanes, out, quiet)

	if _, ok := <-out; ok {
		t.Error("expected no events after a read error")
	}
}

func TestDrainEmpty(t *testing.T) {
	events := make(chan Event, 1)
	got, quit := Drain(events)
	if len(got) != 0 || quit {
		t.Errorf("got %v %v", got, quit)
	}
}
