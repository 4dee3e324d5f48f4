package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/muton2008/music-generator/export"
	"github.com/muton2008/music-generator/generator"
	"github.com/muton2008/music-generator/history"
	"github.com/muton2008/music-generator/music"
	"github.com/muton2008/music-generator/piano"
	"github.com/muton2008/music-generator/player"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var version string

const historySalt = "music-generator"

func main() {
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded .env")
	}

	defaults := generator.DefaultConfig()

	app := cli.NewApp()
	app.Version = version
	app.Compiled = time.Now()
	app.Name = "music-generator"
	app.Usage = "generate and play melodies"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:   "debug",
			Usage:  "print every generation step",
			EnvVar: "MELODY_DEBUG",
		},
		cli.StringFlag{
			Name:   "mode",
			Value:  defaults.Mode,
			Usage:  "major or minor",
			EnvVar: "MELODY_MODE",
		},
		cli.IntFlag{
			Name:   "base",
			Value:  defaults.BaseNote,
			Usage:  "key center as a MIDI note",
			EnvVar: "MELODY_BASE",
		},
		cli.IntFlag{
			Name:   "steps",
			Value:  defaults.TotalSteps,
			Usage:  "steps (1/16 notes) per phrase",
			EnvVar: "MELODY_STEPS",
		},
		cli.IntFlag{
			Name:   "bar",
			Value:  defaults.StepsPerBar,
			Usage:  "steps per bar",
			EnvVar: "MELODY_BAR",
		},
		cli.IntFlag{
			Name:   "span",
			Value:  defaults.MaxSpanSemitones,
			Usage:  "semitone span of the trend curve",
			EnvVar: "MELODY_SPAN",
		},
		cli.IntFlag{
			Name:   "jump",
			Value:  defaults.MaxStepJump,
			Usage:  "largest interval between two notes",
			EnvVar: "MELODY_JUMP",
		},
		cli.StringFlag{
			Name:   "sustain",
			Value:  formatFloats(defaults.SustainProbs),
			Usage:  "comma separated probabilities of holding a note again",
			EnvVar: "MELODY_SUSTAIN",
		},
		cli.Float64Flag{
			Name:   "rest",
			Value:  defaults.RestProb,
			Usage:  "probability of a rest",
			EnvVar: "MELODY_REST",
		},
		cli.Float64Flag{
			Name:   "trend",
			Value:  defaults.TrendStrength,
			Usage:  "strength of the trend curve",
			EnvVar: "MELODY_TREND",
		},
		cli.IntFlag{
			Name:   "chord-every",
			Value:  defaults.ChordChangeEvery,
			Usage:  "steps between chord changes",
			EnvVar: "MELODY_CHORD_EVERY",
		},
		cli.Float64Flag{
			Name:   "chord-weight",
			Value:  defaults.ChordToneWeight,
			Usage:  "weak beat chord tone weight",
			EnvVar: "MELODY_CHORD_WEIGHT",
		},
		cli.Int64Flag{
			Name:   "seed",
			Value:  defaults.Seed,
			Usage:  "random seed",
			EnvVar: "MELODY_SEED",
		},
	}
	app.Before = func(c *cli.Context) error {
		if c.GlobalBool("debug") {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "generate",
			Usage:  "print phrases and optionally save them",
			Action: generate,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "count,n",
					Value: 1,
					Usage: "number of phrases",
				},
				cli.StringFlag{
					Name:  "midi",
					Usage: "write the notes of the phrases to this MIDI file, one note per tick",
				},
				cli.IntFlag{
					Name:  "tick",
					Value: 480,
					Usage: "ticks per note for --midi",
				},
				cli.StringFlag{
					Name:  "grid-midi",
					Usage: "write the phrases with held notes and rests to this MIDI file",
				},
				cli.Float64Flag{
					Name:  "bpm",
					Value: 120,
					Usage: "tempo for --grid-midi",
				},
				cli.StringFlag{
					Name:  "events",
					Usage: "write the note events of the last phrase as JSON",
				},
				cli.StringFlag{
					Name:   "history",
					Usage:  "archive the phrases in this file",
					EnvVar: "MELODY_HISTORY",
				},
			},
		},
		{
			Name:   "play",
			Usage:  "generate phrases forever and play them",
			Action: play,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port",
					Value: -1,
					Usage: "MIDI output device, -1 picks one",
				},
				cli.IntFlag{
					Name:  "program",
					Value: 0,
					Usage: "instrument, 0 is Acoustic Grand Piano",
				},
				cli.DurationFlag{
					Name:  "step",
					Value: 270 * time.Millisecond,
					Usage: "length of one step",
				},
				cli.IntFlag{
					Name:  "queue",
					Value: 3,
					Usage: "phrases generated ahead",
				},
				cli.DurationFlag{
					Name:  "delay",
					Value: 3 * time.Second,
					Usage: "wait before playing",
				},
				cli.IntFlag{
					Name:  "limit",
					Usage: "stop after this many phrases, 0 plays forever",
				},
				cli.BoolFlag{
					Name:  "dry-run",
					Usage: "log the notes instead of opening a MIDI device",
				},
				cli.StringFlag{
					Name:   "history",
					Usage:  "archive the phrases in this file",
					EnvVar: "MELODY_HISTORY",
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func configFromFlags(c *cli.Context) (cfg generator.Config, err error) {
	cfg = generator.DefaultConfig()
	cfg.Mode = c.GlobalString("mode")
	cfg.BaseNote = c.GlobalInt("base")
	cfg.TotalSteps = c.GlobalInt("steps")
	cfg.StepsPerBar = c.GlobalInt("bar")
	cfg.MaxSpanSemitones = c.GlobalInt("span")
	cfg.MaxStepJump = c.GlobalInt("jump")
	cfg.RestProb = c.GlobalFloat64("rest")
	cfg.TrendStrength = c.GlobalFloat64("trend")
	cfg.ChordChangeEvery = c.GlobalInt("chord-every")
	cfg.ChordToneWeight = c.GlobalFloat64("chord-weight")
	cfg.Seed = c.GlobalInt64("seed")
	cfg.SustainProbs, err = parseFloats(c.GlobalString("sustain"))
	if err != nil {
		return
	}
	err = cfg.Validate()
	return
}

func parseFloats(s string) (floats []float64, err error) {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, errParse := strconv.ParseFloat(part, 64)
		if errParse != nil {
			return nil, fmt.Errorf("bad probability %q: %w", part, errParse)
		}
		floats = append(floats, f)
	}
	return
}

func formatFloats(floats []float64) string {
	s := make([]string, len(floats))
	for i, f := range floats {
		s[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strings.Join(s, ",")
}

func openHistory(filename string) *history.History {
	if filename == "" {
		return nil
	}
	h, err := history.Open(filename, historySalt)
	if err != nil {
		log.WithFields(log.Fields{
			"msg": "Could not open history, making new",
		}).Warn(err.Error())
	}
	return h
}

func generate(c *cli.Context) (err error) {
	logger := log.WithFields(log.Fields{
		"function": "generate",
	})
	cfg, err := configFromFlags(c)
	if err != nil {
		return
	}
	g, err := generator.New(cfg)
	if err != nil {
		return
	}
	hist := openHistory(c.String("history"))

	var phrases []music.Grid
	for i := 0; i < c.Int("count"); i++ {
		grid, trace := g.PhraseWithTrace()
		for _, st := range trace {
			if st.Sustained {
				continue
			}
			logger.Debugf("step %03d | bar %d.%d | strong=%v | chord=%s | target=%d | candidates=%v | chosen=%d",
				st.Step, st.Bar+1, st.Position, st.Strong, st.Chord.Label, st.Target, st.Candidates, st.Pitch)
		}
		phrases = append(phrases, grid)
		if hist != nil {
			id, errAdd := hist.Add(cfg.Seed, i, grid)
			if errAdd != nil {
				logger.Warn(errAdd.Error())
			} else {
				fmt.Printf("%s ", id)
			}
		}
		fmt.Println(grid)
	}
	if len(phrases) == 0 {
		return
	}

	if fname := c.String("midi"); fname != "" {
		var pitches []music.Pitch
		for _, grid := range phrases {
			pitches = append(pitches, grid.Pitches()...)
		}
		err = export.WriteFile(fname, func(w io.Writer) error {
			return export.WriteMelody(w, pitches, uint32(c.Int("tick")))
		})
		if err != nil {
			return
		}
	}
	if fname := c.String("grid-midi"); fname != "" {
		var all music.Grid
		for _, grid := range phrases {
			all = append(all, grid...)
		}
		// one step is a 1/16 note
		err = export.WriteFile(fname, func(w io.Writer) error {
			return export.WriteGrid(w, all, export.TicksPerQuarter/4, c.Float64("bpm"))
		})
		if err != nil {
			return
		}
	}
	if fname := c.String("events"); fname != "" {
		err = music.FromGrid(phrases[len(phrases)-1], export.TicksPerQuarter/4, export.Velocity).Save(fname)
		if err != nil {
			return
		}
	}
	if hist != nil {
		err = hist.Save(c.String("history"))
	}
	return
}

func play(c *cli.Context) (err error) {
	fmt.Println(`
	 _______________________________________
	 |  | | | |  |  | | | | | |  |  | | | |  |
	 |  | | | |  |  | | | | | |  |  | | | |  |
	 |  |_| |_|  |  |_| |_| |_|  |  |_| |_|  |
	 |   |   |   |   |   |   |   |   |   |   |
	 |___|___|___|___|___|___|___|___|___|___|

	 Lets play some music!
	`)
	cfg, err := configFromFlags(c)
	if err != nil {
		return
	}
	g, err := generator.New(cfg)
	if err != nil {
		return
	}

	var out player.Output = player.LogOutput{}
	if !c.Bool("dry-run") {
		var ports []int
		if c.Int("port") >= 0 {
			ports = append(ports, c.Int("port"))
		}
		p, errPiano := piano.New(ports...)
		if errPiano != nil {
			return errPiano
		}
		defer p.Close()
		if err = p.Program(c.Int("program")); err != nil {
			return
		}
		out = p
	}

	pl := player.New(g, out, c.Duration("step"))
	pl.QueueSize = c.Int("queue")
	pl.StartDelay = c.Duration("delay")
	pl.Limit = c.Int("limit")

	hist := openHistory(c.String("history"))
	if hist != nil {
		pl.OnPhrase = func(index int, grid music.Grid) {
			if _, errAdd := hist.Add(cfg.Seed, index, grid); errAdd != nil {
				log.Warn(errAdd.Error())
			}
		}
	}

	pl.Start()

	if hist != nil {
		err = hist.Save(c.String("history"))
	}
	return
}
