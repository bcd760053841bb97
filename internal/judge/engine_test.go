package judge

import (
	"errors"
	"testing"

	"git.lost.host/meutraa/eotw/internal/clock"
	"git.lost.host/meutraa/eotw/internal/config"
	"git.lost.host/meutraa/eotw/internal/game"
)

type factory struct {
	spawned map[*game.Note]*proxy
}

func (f *factory) Spawn(note *game.Note) Proxy {
	p := &proxy{}
	f.spawned[note] = p
	return p
}

func chartOf(notes ...game.Note) Loader {
	return func() (*game.Chart, error) {
		ns := make([]*game.Note, len(notes))
		for i := range notes {
			n := notes[i]
			ns[i] = &n
		}
		return game.NewChart("Test", 4, ns), nil
	}
}

func newEngine(t *testing.T, load Loader) (*Engine, *clock.Manual, *recorder, *factory) {
	t.Helper()
	c := clock.NewManual()
	r := &recorder{}
	f := &factory{spawned: map[*game.Note]*proxy{}}
	e, err := NewEngine(EngineConfig{
		Clock:    c,
		Load:     load,
		Windows:  windows(),
		Listener: r,
		Proxies:  f,
		Logger:   quiet,
	})
	if nil != err {
		t.Fatal(err)
	}
	return e, c, r, f
}

func TestEngineSpawnsWithinLookahead(t *testing.T) {
	e, c, _, f := newEngine(t, chartOf(
		game.Note{Time: sec(1), Lane: 0},
		game.Note{Time: sec(2.5), Lane: 1},
		game.Note{Time: sec(6), Lane: 2},
	))

	e.Update(nil)
	if e.Tracker().Len() != 1 || len(f.spawned) != 1 {
		t.Fatalf("at 0s expected one note spawned, got %d", e.Tracker().Len())
	}
	c.Set(sec(0.5))
	e.Update(nil)
	if e.Tracker().Len() != 2 {
		t.Errorf("at 0.5s expected two notes, got %d", e.Tracker().Len())
	}
	c.Set(sec(4))
	e.Update(nil)
	// The first two were swept, the third is within the lookahead.
	if e.Tracker().Len() != 1 || len(f.spawned) != 3 {
		t.Errorf("at 4s active=%d spawned=%d", e.Tracker().Len(), len(f.spawned))
	}
}

func TestEngineScenario(t *testing.T) {
	e, c, r, f := newEngine(t, chartOf(
		game.Note{Time: sec(5), Lane: 2},
		game.Note{Time: sec(10), Lane: 0},
		game.Note{Time: sec(10.05), Lane: 1},
		game.Note{Time: sec(12), Lane: 3},
	))
	notes := e.Chart().Notes

	c.Set(sec(5.02))
	out := e.Update([]int{2})
	if len(out) != 1 || !out[0].Hit || out[0].Accuracy != game.Perfect {
		t.Fatalf("single: %+v", out)
	}
	if f.spawned[notes[0]].disposed != 1 {
		t.Error("hit proxy not disposed")
	}

	c.Set(sec(10.02))
	out = e.Update([]int{1, 0})
	if len(out) != 1 || !out[0].Chord || !out[0].Hit {
		t.Fatalf("chord: %+v", out)
	}

	c.Set(sec(12.31))
	e.Update(nil)
	if notes[3].State() != game.Missed || len(r.misses) != 1 {
		t.Errorf("last note: %v misses=%d", notes[3].State(), len(r.misses))
	}
	if !e.Finished() {
		t.Error("expected the session to be finished")
	}
}

func TestEngineSameSampleForHitAndSweep(t *testing.T) {
	e, c, r, _ := newEngine(t, chartOf(game.Note{Time: sec(1), Lane: 0}))
	e.Update(nil)

	c.Set(sec(1) + ms(300))
	out := e.Update([]int{0})
	if !out[0].Hit || len(r.misses) != 0 {
		t.Fatalf("boundary press lost to the sweep: %+v misses=%d", out, len(r.misses))
	}
}

func TestEngineLateSpawnIsMissedNotLost(t *testing.T) {
	e, c, r, _ := newEngine(t, chartOf(
		game.Note{Time: sec(1), Lane: 0},
		game.Note{Time: sec(1.5), Lane: 1},
	))
	// The first tick arrives long after both notes.
	c.Set(sec(3))
	e.Update(nil)
	if len(r.misses) != 2 || e.Tracker().Len() != 0 {
		t.Errorf("misses=%d active=%d", len(r.misses), e.Tracker().Len())
	}
}

func TestEngineUnregister(t *testing.T) {
	e, _, r, f := newEngine(t, chartOf(game.Note{Time: sec(1), Lane: 0}))
	e.Update(nil)
	note := e.Chart().Notes[0]

	p := f.spawned[note]
	if !e.Unregister(p) || e.Unregister(p) {
		t.Error("unregister is not idempotent")
	}
	if note.State() != game.Missed || len(r.misses) != 1 {
		t.Errorf("disposed note %v misses=%d", note.State(), len(r.misses))
	}
}

func TestEngineEmptyStream(t *testing.T) {
	e, c, _, _ := newEngine(t, chartOf())
	c.Set(sec(1))
	if out := e.Update([]int{0}); len(out) != 1 || out[0].Hit {
		t.Errorf("got %+v", out)
	}
	if !e.Finished() {
		t.Error("empty session should be finished")
	}

	nilChart := func() (*game.Chart, error) { return nil, nil }
	if e, _, _, _ := newEngine(t, nilChart); !e.Finished() {
		t.Error("nil chart should yield an empty session")
	}
}

func TestEngineReset(t *testing.T) {
	e, c, _, _ := newEngine(t, chartOf(game.Note{Time: sec(1), Lane: 0}))
	c.Set(sec(1))
	e.Update([]int{0})
	first := e.Chart().Notes[0]

	c.Restart()
	if err := e.Reset(); nil != err {
		t.Fatal(err)
	}
	second := e.Chart().Notes[0]
	if first == second || second.State() != game.Pending || e.Now() != 0 {
		t.Errorf("reset reused notes: %v %v", first, second)
	}
	if first.State() != game.Hit {
		t.Error("reset rewrote the previous session")
	}
}

func TestNewEngineErrors(t *testing.T) {
	if _, err := NewEngine(EngineConfig{}); nil == err {
		t.Error("expected missing collaborators to fail")
	}

	bad := windows()
	bad.Perfect = bad.Great
	_, err := NewEngine(EngineConfig{Clock: clock.NewManual(), Load: chartOf(), Windows: bad, Listener: &recorder{}})
	if !errors.Is(err, config.ErrInvalidWindows) {
		t.Errorf("expected ErrInvalidWindows, got %v", err)
	}

	boom := errors.New("boom")
	_, err = NewEngine(EngineConfig{
		Clock:    clock.NewManual(),
		Load:     func() (*game.Chart, error) { return nil, boom },
		Windows:  windows(),
		Listener: &recorder{},
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected load error, got %v", err)
	}
}
