// Package input turns key presses into lane presses for the tick loop.
//
// A reader goroutine owns the keyboard and forwards events on a channel;
// the tick loop drains that channel once per tick. Nothing else is shared
// between the two.
package input

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("standard input is not a terminal")

type Event struct {
	Lane int
	Quit bool
}

// LaneFunc maps a key to a lane, -1 for unbound keys.
type LaneFunc func(r rune) int

type Keyboard struct {
	events chan Event
}

// Open starts reading the keyboard in raw mode. Close restores the
// terminal.
func Open(lane LaneFunc, log *slog.Logger) (*Keyboard, error) {
	if nil == log {
		log = slog.Default()
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNotTerminal
	}
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, fmt.Errorf("unable to open keyboard: %w", err)
	}
	k := &Keyboard{events: make(chan Event, 128)}
	go Pump(keys, lane, k.events, log)
	return k, nil
}

func (k *Keyboard) Close() error {
	return keyboard.Close()
}

// Drain returns the lanes pressed since the last call.
func (k *Keyboard) Drain() ([]int, bool) {
	return Drain(k.events)
}

// Pump translates key events until keys is closed, then closes out.
func Pump(keys <-chan keyboard.KeyEvent, lane LaneFunc, out chan<- Event, log *slog.Logger) {
	defer close(out)
	for key := range keys {
		if nil != key.Err {
			log.Error("unable to read keyboard input", "error", key.Err)
			return
		}
		if key.Key == keyboard.KeyEsc || key.Key == keyboard.KeyCtrlC {
			out <- Event{Lane: -1, Quit: true}
			continue
		}
		l := lane(key.Rune)
		if l < 0 {
			log.Debug("key not bound to a lane", "key", string(key.Rune))
			continue
		}
		out <- Event{Lane: l}
	}
}

// Drain empties events without blocking. A closed channel reads as a
// quit request.
func Drain(events <-chan Event) ([]int, bool) {
	lanes := []int{}
	quit := false
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return lanes, true
			}
			if e.Quit {
				quit = true
				continue
			}
			lanes = append(lanes, e.Lane)
		default:
			return lanes, quit
		}
	}
}
