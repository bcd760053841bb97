package judge

import "time"

// Sweep evicts every Pending note whose miss window closed before now. It
// must run with the same clock sample as the tick's presses so a note is
// never hit and evicted at the same instant.
func (j *Judge) Sweep(now time.Duration) int {
	limit := j.windows.Miss + j.windows.SweepGrace
	expired := []*entry{}
	for _, e := range j.tracker.active {
		if !e.note.Terminal() && now-e.note.Time > limit {
			expired = append(expired, e)
		}
	}
	for _, e := range expired {
		j.log.Debug("note missed", "note", e.note.Seq, "lane", e.note.Lane)
		j.tracker.miss(e)
	}
	return len(expired)
}
