package judge

import (
	"log/slog"
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
)

type entry struct {
	note  *game.Note
	proxy Proxy
}

// Tracker owns the active note set: notes that are spawned and still
// Pending. A terminal note is removed in the same call that makes it
// terminal.
type Tracker struct {
	listener Listener
	log      *slog.Logger

	active  []*entry // registration order
	byNote  map[*game.Note]*entry
	byProxy map[Proxy]*entry
}

func NewTracker(listener Listener, log *slog.Logger) *Tracker {
	if nil == log {
		log = slog.Default()
	}
	return &Tracker{
		listener: listener,
		log:      log,
		byNote:   map[*game.Note]*entry{},
		byProxy:  map[Proxy]*entry{},
	}
}

// Register adds note to the active set with an optional proxy. Registering
// a note twice is a no-op; registering a terminal note is refused.
func (t *Tracker) Register(note *game.Note, proxy Proxy) bool {
	if nil == note {
		return false
	}
	if note.Terminal() {
		t.log.Warn("refusing to register terminal note", "note", note.Seq, "state", note.State())
		return false
	}
	if _, ok := t.byNote[note]; ok {
		t.log.Debug("note already registered", "note", note.Seq)
		return false
	}
	if nil != proxy {
		if _, ok := t.byProxy[proxy]; ok {
			t.log.Warn("proxy already tracks another note", "note", note.Seq)
			return false
		}
	}

	e := &entry{note: note, proxy: proxy}
	t.active = append(t.active, e)
	t.byNote[note] = e
	if nil != proxy {
		t.byProxy[proxy] = e
	}
	return true
}

// Unregister drops the note tracked by proxy. It is safe to call after the
// note was hit or swept, and safe to call twice. A note still Pending when
// its proxy goes away is reported missed rather than vanishing.
func (t *Tracker) Unregister(proxy Proxy) bool {
	if nil == proxy {
		return false
	}
	e, ok := t.byProxy[proxy]
	if !ok {
		return false
	}
	t.remove(e)
	if e.note.MarkMissed() {
		t.log.Debug("proxy disposed before note resolved", "note", e.note.Seq)
		t.listener.OnNoteMissed(e.note)
	}
	return true
}

func (t *Tracker) Len() int {
	return len(t.active)
}

// Contains reports whether note is in the active set.
func (t *Tracker) Contains(note *game.Note) bool {
	_, ok := t.byNote[note]
	return ok
}

// Notes returns a snapshot of the active set in registration order.
func (t *Tracker) Notes() []*game.Note {
	notes := make([]*game.Note, len(t.active))
	for i, e := range t.active {
		notes[i] = e.note
	}
	return notes
}

// hit claims a group of entries. Every note is marked and removed before
// any notification goes out, so listeners never observe half a chord.
func (t *Tracker) hit(entries []*entry, a game.Accuracy, now time.Duration) {
	claimed := make([]*entry, 0, len(entries))
	for _, e := range entries {
		if !e.note.MarkHit(a, now) {
			t.log.Error("claimed note was not pending", "note", e.note.Seq, "state", e.note.State())
			continue
		}
		t.remove(e)
		claimed = append(claimed, e)
	}
	for _, e := range claimed {
		t.listener.OnNoteHit(e.note, a)
		if nil != e.proxy {
			e.proxy.Hit()
		}
	}
}

func (t *Tracker) miss(e *entry) {
	if !e.note.MarkMissed() {
		return
	}
	t.remove(e)
	t.listener.OnNoteMissed(e.note)
}

func (t *Tracker) remove(e *entry) {
	if _, ok := t.byNote[e.note]; !ok {
		return
	}
	delete(t.byNote, e.note)
	if nil != e.proxy {
		delete(t.byProxy, e.proxy)
	}
	for i, a := range t.active {
		if a == e {
			t.active = append(t.active[:i], t.active[i+1:]...)
			break
		}
	}
}
