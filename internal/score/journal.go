package score

import (
	"fmt"
	"log/slog"
	"time"

	"git.lost.host/meutraa/eotw/internal/clock"
	"git.lost.host/meutraa/eotw/internal/config"
	"git.lost.host/meutraa/eotw/internal/judge"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Frame is every lane pressed in one tick, stamped with that tick's clock
// sample. Ticks that only swept misses are kept with no lanes so a replay
// delivers misses in the same order relative to hits.
type Frame struct {
	At    time.Duration `cbor:"1,keyasint"`
	Lanes []int         `cbor:"2,keyasint"`
}

// Journal is the input of one session. Replaying it against the same
// difficulty reproduces every judgement.
type Journal struct {
	Fingerprint [32]byte `cbor:"1,keyasint"`
	Rate        float64  `cbor:"2,keyasint"`
	Frames      []Frame  `cbor:"3,keyasint"`

	// Clock position of the last tick. A session quit early ends before
	// its last note. Zero when unknown; replay then runs past the last
	// note.
	End time.Duration `cbor:"4,keyasint,omitempty"`

	// Kept by the store alongside the encoded journal.
	PlayedAt time.Time `cbor:"-"`
}

// Record keeps a tick that pressed lanes or swept notes.
func (j *Journal) Record(at time.Duration, lanes []int, swept int) {
	if len(lanes) == 0 && swept == 0 {
		return
	}
	j.Frames = append(j.Frames, Frame{At: at, Lanes: append([]int(nil), lanes...)})
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if nil != err {
		panic("score: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if nil != err {
		panic("score: CBOR decoder initialization failed: " + err.Error())
	}
	encoder, err = zstd.NewWriter(nil)
	if nil != err {
		panic("score: zstd encoder initialization failed: " + err.Error())
	}
	decoder, err = zstd.NewReader(nil)
	if nil != err {
		panic("score: zstd decoder initialization failed: " + err.Error())
	}
}

// Encode serialises a journal as deterministic CBOR, zstd compressed.
func (j *Journal) Encode() ([]byte, error) {
	data, err := encMode.Marshal(j)
	if nil != err {
		return nil, fmt.Errorf("unable to marshal journal: %w", err)
	}
	return encoder.EncodeAll(data, nil), nil
}

func DecodeJournal(blob []byte) (*Journal, error) {
	data, err := decoder.DecodeAll(blob, nil)
	if nil != err {
		return nil, fmt.Errorf("unable to decompress journal: %w", err)
	}
	var j Journal
	if err := decMode.Unmarshal(data, &j); nil != err {
		return nil, fmt.Errorf("unable to unmarshal journal: %w", err)
	}
	return &j, nil
}

// Replay runs a journal through a fresh engine on a manual clock and
// returns the result it scores to.
func Replay(load judge.Loader, j *Journal, windows config.Windows, log *slog.Logger) (Result, error) {
	c := clock.NewManual()
	scorer := New("")
	engine, err := judge.NewEngine(judge.EngineConfig{
		Clock:    c,
		Load:     load,
		Windows:  windows,
		Listener: scorer,
		Logger:   log,
	})
	if nil != err {
		return Result{}, err
	}

	for _, frame := range j.Frames {
		c.Set(frame.At)
		engine.Update(frame.Lanes)
	}

	// Close the session at its last tick. Without a recorded end, close
	// it past the last note so everything left behind is swept.
	end := j.End
	if end == 0 {
		end = engine.Chart().Last() + windows.Miss + windows.SweepGrace + time.Millisecond
	}
	c.Set(end)
	engine.Update(nil)
	if j.End == 0 && !engine.Finished() {
		return Result{}, fmt.Errorf("replay left %d notes unresolved", engine.Tracker().Len())
	}

	r := scorer.Result()
	r.Difficulty = engine.Chart().Difficulty
	return r, nil
}
