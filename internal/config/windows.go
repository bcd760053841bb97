package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidWindows = errors.New("invalid timing windows")

// Windows are the timing thresholds of a session. All deltas are absolute
// distances between a note's scheduled time and the clock.
type Windows struct {
	Perfect time.Duration `yaml:"perfect"`
	Great   time.Duration `yaml:"great"`
	Good    time.Duration `yaml:"good"`

	// A note further than Miss from the clock cannot be hit at all.
	Miss time.Duration `yaml:"miss"`

	// Notes in different lanes closer than this form one chord.
	ChordTolerance time.Duration `yaml:"chord_tolerance"`

	// Extra time past Miss before the sweeper evicts a note.
	SweepGrace time.Duration `yaml:"sweep_grace"`

	// How far ahead of the clock notes are spawned into the active set.
	Lookahead time.Duration `yaml:"lookahead"`
}

func DefaultWindows() Windows {
	return Windows{
		Perfect:        80 * time.Millisecond,
		Great:          160 * time.Millisecond,
		Good:           300 * time.Millisecond,
		Miss:           300 * time.Millisecond,
		ChordTolerance: 100 * time.Millisecond,
		SweepGrace:     0,
		Lookahead:      2 * time.Second,
	}
}

func (w Windows) Validate() error {
	switch {
	case w.Perfect <= 0:
		return fmt.Errorf("%w: perfect must be positive, got %v", ErrInvalidWindows, w.Perfect)
	case w.Perfect >= w.Great:
		return fmt.Errorf("%w: perfect %v must be below great %v", ErrInvalidWindows, w.Perfect, w.Great)
	case w.Great >= w.Good:
		return fmt.Errorf("%w: great %v must be below good %v", ErrInvalidWindows, w.Great, w.Good)
	case w.Good > w.Miss:
		return fmt.Errorf("%w: good %v must not exceed miss %v", ErrInvalidWindows, w.Good, w.Miss)
	case w.ChordTolerance < 0:
		return fmt.Errorf("%w: negative chord tolerance %v", ErrInvalidWindows, w.ChordTolerance)
	case w.SweepGrace < 0:
		return fmt.Errorf("%w: negative sweep grace %v", ErrInvalidWindows, w.SweepGrace)
	case w.Lookahead < w.Miss:
		return fmt.Errorf("%w: lookahead %v must cover miss %v", ErrInvalidWindows, w.Lookahead, w.Miss)
	}
	return nil
}

// ParseWindows overlays YAML onto the defaults. Unknown keys are
// rejected so a typo cannot silently leave a default in place.
func ParseWindows(data []byte) (Windows, error) {
	w := DefaultWindows()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&w); nil != err && !errors.Is(err, io.EOF) {
		return Windows{}, fmt.Errorf("unable to decode windows: %w", err)
	}
	if err := w.Validate(); nil != err {
		return Windows{}, err
	}
	return w, nil
}

// LoadWindows reads a windows file. An empty path yields the defaults.
func LoadWindows(path string) (Windows, error) {
	if path == "" {
		return DefaultWindows(), nil
	}
	data, err := os.ReadFile(path)
	if nil != err {
		return Windows{}, fmt.Errorf("unable to read windows file: %w", err)
	}
	return ParseWindows(data)
}
