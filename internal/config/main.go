package config

import (
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

const (
	CommandPlay   = "play"
	CommandReplay = "replay"
	CommandCheck  = "check"
)

type Options struct {
	Command    string
	Events     string
	Difficulty string
	Audio      string
	Rate       float64
	Offset     time.Duration
	Delay      time.Duration
	Windows    string
	Journal    string
	LogLevel   string

	keys map[int]*string
}

// Parse reads the command line. args excludes the program name.
func Parse(args []string) (*Options, error) {
	o := &Options{keys: map[int]*string{}}

	app := kingpin.New("eotw", "Rhythm game timing and hit detection")
	app.Version(Version)
	app.Flag("log-level", "Minimum log level").Default("info").EnumVar(&o.LogLevel, "debug", "info", "warn", "error")

	play := app.Command(CommandPlay, "Play a difficulty with the keyboard")
	play.Arg("events", "Event stream file").Required().ExistingFileVar(&o.Events)
	play.Flag("difficulty", "Difficulty to play, first in the file when empty").Short('D').StringVar(&o.Difficulty)
	play.Flag("audio", "Song audio (.mp3 or .wav)").Short('a').ExistingFileVar(&o.Audio)
	play.Flag("rate", "Playback rate").Default("1.0").Short('r').Float64Var(&o.Rate)
	play.Flag("offset", "Global offset").Default("0ms").Short('o').DurationVar(&o.Offset)
	play.Flag("delay", "Start delay").Default("1.5s").Short('d').DurationVar(&o.Delay)
	play.Flag("windows", "Timing windows YAML file").Short('w').ExistingFileVar(&o.Windows)
	play.Flag("journal", "Input journal database").Default("./journal.db").Short('j').StringVar(&o.Journal)
	o.keys[4] = play.Flag("keys-single", "Keys for 4 lanes").Default("dfjk").Short('k').String()
	o.keys[6] = play.Flag("keys-solo", "Keys for 6 lanes").Default("sdfjkl").String()
	o.keys[8] = play.Flag("keys-double", "Keys for 8 lanes").Default("asdfjkl;").String()

	replay := app.Command(CommandReplay, "Rescore recorded journals of a difficulty")
	replay.Arg("events", "Event stream file").Required().ExistingFileVar(&o.Events)
	replay.Flag("difficulty", "Difficulty to rescore").Short('D').StringVar(&o.Difficulty)
	replay.Flag("windows", "Timing windows YAML file").Short('w').ExistingFileVar(&o.Windows)
	replay.Flag("journal", "Input journal database").Default("./journal.db").Short('j').StringVar(&o.Journal)

	check := app.Command(CommandCheck, "Summarise an event stream")
	check.Arg("events", "Event stream file").Required().ExistingFileVar(&o.Events)

	command, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	o.Command = command

	if command == CommandPlay && o.Rate <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %v", o.Rate)
	}
	return o, nil
}

func (o *Options) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); nil != err {
		return slog.LevelInfo
	}
	return level
}

// Keys returns the key of every lane for a lane count, falling back to
// the 4 lane layout.
func (o *Options) Keys(lanes int) []rune {
	for _, n := range []int{lanes, 4} {
		if k, ok := o.keys[n]; ok && nil != k && len(*k) >= n {
			return []rune(*k)
		}
	}
	return []rune("dfjk")
}

// KeyLane maps a key to its lane, -1 when the key is not bound.
func (o *Options) KeyLane(r rune, lanes int) int {
	for i, c := range o.Keys(lanes) {
		if r == c {
			return i
		}
	}
	return -1
}
