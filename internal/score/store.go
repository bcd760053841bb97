package score

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNoJournal = errors.New("no journal recorded")

// Store keeps input journals, keyed by difficulty fingerprint. It stores
// what was pressed, never scores; scores are recomputed by Replay.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

type History struct {
	ID      int64
	Journal *Journal
}

func Open(path string, log *slog.Logger) (*Store, error) {
	if nil == log {
		log = slog.Default()
	}
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, fmt.Errorf("unable to open journal store: %w", err)
	}

	initStatement := `
	create table if not exists journals
	  (
		  id integer not null primary key,
		  sum text not null,
		  rate real,
		  played_at integer,
		  inputs blob
	  );
	create index if not exists journals_sum on journals(sum);
	`
	if _, err := db.Exec(initStatement); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create journal table: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func fingerprintKey(sum [32]byte) string {
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *Store) Save(j *Journal) (int64, error) {
	data, err := j.Encode()
	if nil != err {
		return 0, err
	}
	res, err := s.db.Exec(
		"insert into journals(sum, rate, played_at, inputs) values(?, ?, ?, ?)",
		fingerprintKey(j.Fingerprint), j.Rate, j.PlayedAt.UnixNano(), data,
	)
	if nil != err {
		return 0, fmt.Errorf("unable to save journal: %w", err)
	}
	return res.LastInsertId()
}

// Load returns every journal recorded for a fingerprint, oldest first.
// Rows that fail to decode are logged and skipped.
func (s *Store) Load(fingerprint [32]byte) ([]History, error) {
	rows, err := s.db.Query(
		"select id, played_at, inputs from journals where sum = ? order by id",
		fingerprintKey(fingerprint),
	)
	if nil != err {
		return nil, fmt.Errorf("unable to load journals: %w", err)
	}
	defer rows.Close()

	histories := []History{}
	for rows.Next() {
		var id, playedAt int64
		var blob []byte
		if err := rows.Scan(&id, &playedAt, &blob); nil != err {
			return nil, fmt.Errorf("unable to scan journal: %w", err)
		}
		j, err := DecodeJournal(blob)
		if nil != err {
			s.log.Warn("skipping unreadable journal", "id", id, "error", err)
			continue
		}
		j.PlayedAt = time.Unix(0, playedAt)
		histories = append(histories, History{ID: id, Journal: j})
	}
	if err := rows.Err(); nil != err {
		return nil, fmt.Errorf("unable to read journals: %w", err)
	}
	if len(histories) == 0 {
		return nil, ErrNoJournal
	}
	return histories, nil
}
