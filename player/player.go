package player

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/muton2008/music-generator/generator"
	"github.com/muton2008/music-generator/music"
	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"
)

// Player keeps a small queue of generated phrases and plays them one
// after another. One goroutine generates, another plays, and a full or
// empty queue makes either of them wait.
type Player struct {
	// Generator produces the phrases. Only the producer goroutine uses it.
	Generator *generator.Generator
	// Output sounds the notes
	Output Output
	// StepDuration is the length of one grid step
	StepDuration time.Duration
	// QueueSize is how many phrases may wait for playback
	QueueSize int
	// StartDelay is waited before the first phrase is played
	StartDelay time.Duration
	// Limit stops the player after that many phrases were played,
	// 0 plays forever
	Limit int
	// OnPhrase is called by the producer for every generated phrase
	OnPhrase func(index int, grid music.Grid)

	sleep Sleeper
}

// New returns a player with the default queue of three phrases
func New(g *generator.Generator, out Output, stepDuration time.Duration) (p *Player) {
	p = new(Player)
	p.Generator = g
	p.Output = out
	p.StepDuration = stepDuration
	p.QueueSize = 3
	p.StartDelay = 3 * time.Second
	p.sleep = Sleep
	return
}

// Run generates and plays phrases until ctx is cancelled or Limit
// phrases were played. Playback errors are logged and skip to the next phrase.
func (p *Player) Run(ctx context.Context) (played int) {
	logger := log.WithFields(log.Fields{
		"function": "Player.Run",
	})
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	size := p.QueueSize
	if size < 1 {
		size = 1
	}
	queue := make(chan music.Grid, size)
	sleep := p.sleep
	if sleep == nil {
		sleep = Sleep
	}

	wg := sizedwaitgroup.New(2)

	wg.Add()
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			grid := p.Generator.Phrase()
			if p.OnPhrase != nil {
				p.OnPhrase(i, grid)
			}
			select {
			case queue <- grid:
				logger.Debugf("Generated phrase, queue length: %d", len(queue))
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Add()
	go func() {
		defer wg.Done()
		logger.Infof("Player will start in %s", p.StartDelay)
		if sleep(ctx, p.StartDelay) != nil {
			return
		}
		for {
			select {
			case grid := <-queue:
				logger.Infof("Playing phrase, queue length: %d", len(queue))
				if err := PlayGrid(ctx, p.Output, grid, p.StepDuration, sleep); err != nil {
					if ctx.Err() != nil {
						return
					}
					logger.Error(err.Error())
				}
				played++
				if p.Limit > 0 && played >= p.Limit {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	return
}

// Start runs the player until Ctrl+C
func (p *Player) Start() {
	logger := log.WithFields(log.Fields{
		"function": "Player.Start",
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Exit on Ctl+C
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)
	go func() {
		select {
		case sig := <-c:
			logger.Debugf("%+v", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	played := p.Run(ctx)
	logger.Infof("Done, played %d phrases", played)
}
