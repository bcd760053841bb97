// Package stream loads pre-parsed note event streams.
//
// A stream file is JSON, comments and trailing commas allowed, holding one
// chronological event list per difficulty. Times are seconds from the
// start of the song. Chart files themselves are converted elsewhere.
package stream

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
	"github.com/tidwall/jsonc"
	"github.com/zeebo/blake3"
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

type Event struct {
	Time  float64 `json:"time"`
	Lane  int     `json:"lane"`
	Chord int     `json:"chord,omitempty"`
}

type Difficulty struct {
	Name   string  `json:"name"`
	Lanes  int     `json:"lanes"`
	Events []Event `json:"events"`
}

type Stream struct {
	Title        string       `json:"title"`
	Difficulties []Difficulty `json:"difficulties"`
}

func Parse(data []byte) (*Stream, error) {
	var s Stream
	if err := json.Unmarshal(jsonc.ToJSON(data), &s); nil != err {
		return nil, fmt.Errorf("unable to decode event stream: %w", err)
	}
	for _, d := range s.Difficulties {
		if err := d.validate(); nil != err {
			return nil, err
		}
	}
	return &s, nil
}

func Load(path string) (*Stream, error) {
	data, err := os.ReadFile(path)
	if nil != err {
		return nil, fmt.Errorf("unable to read event stream: %w", err)
	}
	return Parse(data)
}

// Difficulty finds a difficulty by name. An empty name selects the first.
func (s *Stream) Difficulty(name string) (*Difficulty, error) {
	for i := range s.Difficulties {
		if name == "" || s.Difficulties[i].Name == name {
			return &s.Difficulties[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
}

func (d *Difficulty) validate() error {
	if d.Lanes <= 0 && len(d.Events) > 0 {
		return fmt.Errorf("difficulty %q: lane count %d", d.Name, d.Lanes)
	}
	for i, e := range d.Events {
		if e.Lane < 0 || e.Lane >= d.Lanes {
			return fmt.Errorf("difficulty %q event %d: lane %d outside 0-%d", d.Name, i, e.Lane, d.Lanes-1)
		}
		if e.Time < 0 || math.IsNaN(e.Time) || math.IsInf(e.Time, 0) {
			return fmt.Errorf("difficulty %q event %d: bad time %v", d.Name, i, e.Time)
		}
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// Chart builds a new set of notes. Each call returns distinct notes, so a
// chart can be reloaded for a fresh session.
func (d *Difficulty) Chart() *game.Chart {
	notes := make([]*game.Note, len(d.Events))
	for i, e := range d.Events {
		notes[i] = &game.Note{
			Time:  seconds(e.Time),
			Lane:  e.Lane,
			Chord: e.Chord,
		}
	}
	return game.NewChart(d.Name, d.Lanes, notes)
}

// Load adapts Chart to the engine's loader signature.
func (d *Difficulty) Load() (*game.Chart, error) {
	return d.Chart(), nil
}

// Fingerprint identifies the playable content of a difficulty: lane count
// and every event, in stream order. Names and titles do not contribute.
func (d *Difficulty) Fingerprint() [32]byte {
	h := blake3.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(d.Lanes))
	h.Write(buf[:])
	for _, e := range d.Events {
		binary.LittleEndian.PutUint64(buf[:], uint64(seconds(e.Time)))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(e.Lane))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(e.Chord))
		h.Write(buf[:])
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

type Summary struct {
	Notes  int
	Chords int
	Lanes  int
	Length time.Duration
}

// Summary counts notes and authored chords.
func (d *Difficulty) Summary() Summary {
	chords := map[int]struct{}{}
	s := Summary{Notes: len(d.Events), Lanes: d.Lanes}
	for _, e := range d.Events {
		if e.Chord != 0 {
			chords[e.Chord] = struct{}{}
		}
		if t := seconds(e.Time); t > s.Length {
			s.Length = t
		}
	}
	s.Chords = len(chords)
	return s
}
