// Package audio decodes the song and reports its playback position as a
// clock.
//
// It is the only package that talks to the speaker; the timing core
// depends on the clock interface alone.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

var ErrUnsupported = errors.New("unsupported audio format")

// Decode opens an mp3 or wav file.
func Decode(file string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(path.Ext(file))
	if ext != ".mp3" && ext != ".wav" {
		return nil, beep.Format{}, fmt.Errorf("%w: %v", ErrUnsupported, file)
	}

	f, err := os.Open(file)
	if nil != err {
		return nil, beep.Format{}, err
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	if ext == ".mp3" {
		streamer, format, err = mp3.Decode(f)
	} else {
		streamer, format, err = wav.Decode(f)
	}
	if nil != err {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unable to decode audio: %w", err)
	}
	return streamer, format, nil
}

// Clock reads the song position from a streamer being played by the
// speaker. The speaker resamples for the playback rate, so sample
// positions in the source format are already song time.
type Clock struct {
	streamer beep.StreamSeeker
	ctrl     *beep.Ctrl
	format   beep.Format
	offset   time.Duration
}

// NewClock wraps streamer. ctrl may be nil when playback cannot be
// paused. offset is the global offset added to every position.
func NewClock(streamer beep.StreamSeeker, ctrl *beep.Ctrl, format beep.Format, offset time.Duration) *Clock {
	return &Clock{
		streamer: streamer,
		ctrl:     ctrl,
		format:   format,
		offset:   offset,
	}
}

func (c *Clock) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	p := c.format.SampleRate.D(c.streamer.Position()) + c.offset
	if p < 0 {
		return 0
	}
	return p
}

func (c *Clock) Playing() bool {
	speaker.Lock()
	defer speaker.Unlock()
	if nil != c.ctrl && c.ctrl.Paused {
		return false
	}
	return c.streamer.Position() < c.streamer.Len()
}
