package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"git.lost.host/meutraa/eotw/internal/audio"
	"git.lost.host/meutraa/eotw/internal/clock"
	"git.lost.host/meutraa/eotw/internal/config"
	"git.lost.host/meutraa/eotw/internal/input"
	"git.lost.host/meutraa/eotw/internal/judge"
	"git.lost.host/meutraa/eotw/internal/score"
	"git.lost.host/meutraa/eotw/internal/stream"
	"git.lost.host/meutraa/eotw/internal/theme"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const framePeriod = 2 * time.Millisecond

// Program is one play session in the terminal.
type Program struct {
	Options *config.Options
	Stream  *stream.Stream
	Log     *slog.Logger
	Theme   theme.Theme
	Out     io.Writer

	difficulty *stream.Difficulty
	windows    config.Windows
	clock      clock.Clock
	streamer   beep.StreamSeekCloser
	keyboard   *input.Keyboard
	scorer     *score.DefaultScorer
	engine     *judge.Engine
	journal    *score.Journal
}

func (p *Program) Init() error {
	var err error
	p.windows, err = config.LoadWindows(p.Options.Windows)
	if nil != err {
		return err
	}
	p.difficulty = difficulty(p.Stream, p.Options.Difficulty, p.Log)

	start := time.Now().Add(p.Options.Delay)
	if p.Options.Audio != "" {
		if err := p.openAudio(); nil != err {
			return err
		}
	} else {
		p.clock = clock.NewWall(start.Add(-p.Options.Offset), p.Options.Rate)
	}

	p.scorer = score.New(p.difficulty.Name)
	p.engine, err = judge.NewEngine(judge.EngineConfig{
		Clock:    p.clock,
		Load:     p.difficulty.Load,
		Windows:  p.windows,
		Listener: p.scorer,
		Logger:   p.Log,
	})
	if nil != err {
		return err
	}
	p.journal = &score.Journal{
		Fingerprint: p.difficulty.Fingerprint(),
		Rate:        p.Options.Rate,
		PlayedAt:    time.Now(),
	}

	lanes := p.engine.Chart().Lanes
	p.keyboard, err = input.Open(func(r rune) int {
		return p.Options.KeyLane(r, lanes)
	}, p.Log)
	if nil != err {
		return err
	}
	return nil
}

func (p *Program) openAudio() error {
	var format beep.Format
	var err error
	p.streamer, format, err = audio.Decode(p.Options.Audio)
	if nil != err {
		return err
	}

	// Playing the source at a scaled sample rate changes speed without
	// touching sample positions, so those stay in song time.
	rate := beep.SampleRate(math.Round(float64(format.SampleRate) * p.Options.Rate))
	if err := speaker.Init(rate, format.SampleRate.N(time.Second/60)); nil != err {
		return fmt.Errorf("unable to open speaker: %w", err)
	}
	ctrl := &beep.Ctrl{Streamer: p.streamer}
	p.clock = clock.NewMonotonic(audio.NewClock(p.streamer, ctrl, format, p.Options.Offset))
	p.Log.Info("opening audio", "file", p.Options.Audio, "rate", p.Options.Rate)
	time.AfterFunc(p.Options.Delay, func() {
		speaker.Play(ctrl)
	})
	return nil
}

func (p *Program) Deinit() {
	if nil != p.keyboard {
		if err := p.keyboard.Close(); nil != err {
			p.Log.Warn("unable to close keyboard", "error", err)
		}
	}
	if nil != p.streamer {
		speaker.Clear()
		p.streamer.Close()
	}
}

// Run ticks the engine until every note is judged or the player quits,
// then records the journal and prints the result.
func (p *Program) Run() error {
	fmt.Fprintf(p.Out, "%v  %v (%d lanes, keys %q)\r\n",
		p.Stream.Title, p.difficulty.Name, p.engine.Chart().Lanes, string(p.Options.Keys(p.engine.Chart().Lanes)))

	for {
		deadline := time.Now().Add(framePeriod)

		lanes, quit := p.keyboard.Drain()
		if quit {
			p.Log.Info("session aborted")
			break
		}
		outcomes := p.engine.Update(lanes)
		p.journal.Record(p.engine.Now(), lanes, p.engine.Swept())
		p.feedback(outcomes)

		if p.engine.Finished() {
			break
		}
		time.Sleep(time.Until(deadline))
	}

	p.journal.End = p.engine.Now()
	result := p.scorer.Result()
	if err := p.save(); nil != err {
		p.Log.Warn("journal not saved", "error", err)
	}
	fmt.Fprint(p.Out, "\r\n")
	summary(&crlf{p.Out}, p.Theme, result, nil)
	return nil
}

func (p *Program) feedback(outcomes []judge.Outcome) {
	for _, o := range outcomes {
		if !o.Hit {
			continue
		}
		r := p.scorer.Result()
		fmt.Fprintf(p.Out, "\r%v  combo %4d\033[K", p.Theme.RenderAccuracy(o.Accuracy), r.Combo)
	}
}

func (p *Program) save() error {
	if p.Options.Journal == "" || len(p.journal.Frames) == 0 || p.journal.End == 0 {
		return nil
	}
	store, err := score.Open(p.Options.Journal, p.Log)
	if nil != err {
		return err
	}
	defer store.Close()
	id, err := store.Save(p.journal)
	if nil != err {
		return err
	}
	p.Log.Debug("journal saved", "id", id, "frames", len(p.journal.Frames))
	return nil
}

// crlf terminates lines with \r\n while the terminal is in raw mode.
type crlf struct {
	w io.Writer
}

func (c *crlf) Write(b []byte) (int, error) {
	if _, err := c.w.Write([]byte(strings.ReplaceAll(string(b), "\n", "\r\n"))); nil != err {
		return 0, err
	}
	return len(b), nil
}
