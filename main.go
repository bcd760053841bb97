package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"git.lost.host/meutraa/eotw/internal/config"
	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/score"
	"git.lost.host/meutraa/eotw/internal/stream"
	"git.lost.host/meutraa/eotw/internal/theme"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); nil != err {
		slog.Error("eotw failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	opts, err := config.Parse(args)
	if nil != err {
		return err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.Level()}))
	slog.SetDefault(log)

	s, err := stream.Load(opts.Events)
	if nil != err {
		return err
	}

	switch opts.Command {
	case config.CommandCheck:
		return check(out, s)
	case config.CommandReplay:
		return replay(out, s, opts, log)
	case config.CommandPlay:
		p := &Program{Options: opts, Stream: s, Log: log, Theme: &theme.DefaultTheme{}, Out: out}
		if err := p.Init(); nil != err {
			return err
		}
		defer p.Deinit()
		return p.Run()
	}
	return fmt.Errorf("unknown command %q", opts.Command)
}

// difficulty selects the requested difficulty. A missing one is not
// fatal: the session simply has no notes, which the engine warns about.
func difficulty(s *stream.Stream, name string, log *slog.Logger) *stream.Difficulty {
	d, err := s.Difficulty(name)
	if errors.Is(err, stream.ErrUnknownDifficulty) {
		log.Debug("difficulty not in event stream", "difficulty", name)
		return &stream.Difficulty{Name: name}
	}
	return d
}

func check(out io.Writer, s *stream.Stream) error {
	fmt.Fprintf(out, "%v\n", s.Title)
	for i := range s.Difficulties {
		d := &s.Difficulties[i]
		sum := d.Summary()
		fmt.Fprintf(out, "%2v) %-12v %dk %5v notes %4v chords %8v\n",
			i, d.Name, sum.Lanes, sum.Notes, sum.Chords, sum.Length.Round(time.Second))
	}
	return nil
}

func replay(out io.Writer, s *stream.Stream, opts *config.Options, log *slog.Logger) error {
	windows, err := config.LoadWindows(opts.Windows)
	if nil != err {
		return err
	}
	d := difficulty(s, opts.Difficulty, log)

	store, err := score.Open(opts.Journal, log)
	if nil != err {
		return err
	}
	defer store.Close()

	histories, err := store.Load(d.Fingerprint())
	if errors.Is(err, score.ErrNoJournal) {
		fmt.Fprintf(out, "no journals recorded for %v\n", d.Name)
		return nil
	} else if nil != err {
		return err
	}

	th := &theme.DefaultTheme{}
	var previous *score.Result
	for _, h := range histories {
		r, err := score.Replay(d.Load, h.Journal, windows, log)
		if nil != err {
			log.Warn("unable to replay journal", "id", h.ID, "error", err)
			continue
		}
		fmt.Fprintf(out, "#%v  %v  rate %.2f\n", h.ID, h.Journal.PlayedAt.Format("2006-01-02 15:04"), h.Journal.Rate)
		summary(out, th, r, previous)
		previous = &r
	}
	return nil
}

// summary prints a result, with the change in percentage against the
// previous result when one is given.
func summary(out io.Writer, th theme.Theme, r score.Result, previous *score.Result) {
	for _, a := range game.Accuracies {
		fmt.Fprintf(out, "%v: %6v\n", th.RenderAccuracy(a), r.Counts[a])
	}
	fmt.Fprintf(out, "%v: %6v\n", th.RenderLabel("Errant"), r.Errant)
	fmt.Fprintf(out, "%v: %6v\n", th.RenderLabel("Max combo"), r.MaxCombo)
	fmt.Fprintf(out, "%v: %6v\n", th.RenderLabel("Points"), r.Points)
	fmt.Fprintf(out, "%v: %6.2f ms\n", th.RenderLabel("Mean"), float64(r.Mean)/float64(time.Millisecond))
	fmt.Fprintf(out, "%v: %6.2f ms\n", th.RenderLabel("Stdev"), float64(r.Stdev)/float64(time.Millisecond))
	if nil != previous {
		fmt.Fprintf(out, "%v: %6.2f%% (%+.2f)\n", th.RenderLabel("Score"), r.Percentage(), r.Percentage()-previous.Percentage())
	} else {
		fmt.Fprintf(out, "%v: %6.2f%%\n", th.RenderLabel("Score"), r.Percentage())
	}
}
