package cmd

import (
	"fmt"
	"io"

	"github.com/GoCodeAlone/locator"
	"github.com/GoCodeAlone/locator/scene"
)

// AudioPlayer is the capability the demo resolves through interface discovery.
type AudioPlayer interface {
	Play(clip string) string
}

// Speaker is a scene component implementing AudioPlayer.
type Speaker struct {
	scene.Behaviour
	Channel string
}

func (s *Speaker) Play(clip string) string {
	return fmt.Sprintf("%s plays %s on %s", s.Object().Name, clip, s.Channel)
}

// ScoreBoard is a concrete scene component resolved by type lookup.
type ScoreBoard struct {
	scene.Behaviour
	Points int
}

// Clock is a plain Go service registered explicitly.
type Clock struct {
	Tick uint64
}

// world is the demo scene plus the container wired to it.
type world struct {
	scene     *scene.Scene
	container *locator.Container
	sweeper   *locator.TickSweeper
	speaker   *scene.Object
	out       io.Writer
}

func newWorld(cfg *locator.Config, logger locator.Logger, out io.Writer) (*world, error) {
	sc := scene.New()
	c, err := locator.New(
		locator.WithConfig(cfg),
		locator.WithLogger(logger),
		locator.WithHost(sc),
	)
	if err != nil {
		return nil, err
	}

	w := &world{
		scene:     sc,
		container: c,
		sweeper:   locator.NewTickSweeper(c),
		out:       out,
	}
	w.speaker = sc.Spawn("speaker-1", &Speaker{Channel: "left"})
	sc.Spawn("hud", &ScoreBoard{})
	locator.Set(c, &Clock{})
	return w, nil
}

// step runs one update tick. Destroy and respawn ticks exercise the
// expired-reference path.
func (w *world) step(tick, destroyAt, respawnAt uint64) {
	switch tick {
	case destroyAt:
		w.speaker.Destroy()
		fmt.Fprintf(w.out, "tick %d: destroyed %s\n", tick, w.speaker.Name)
	case respawnAt:
		w.speaker = w.scene.Spawn(fmt.Sprintf("speaker-%d", tick), &Speaker{Channel: "right"})
		fmt.Fprintf(w.out, "tick %d: spawned %s\n", tick, w.speaker.Name)
	}

	if clock, err := locator.Get[*Clock](w.container); err == nil {
		clock.Tick = tick
	}

	player, err := locator.Get[AudioPlayer](w.container)
	switch {
	case err != nil:
		fmt.Fprintf(w.out, "tick %d: audio unavailable: %v\n", tick, err)
	default:
		fmt.Fprintf(w.out, "tick %d: %s\n", tick, player.Play("theme"))
	}

	if board, _ := locator.Get[*ScoreBoard](w.container, locator.Optional()); board != nil {
		board.Points++
	}

	if n := w.sweeper.Tick(); n > 0 {
		fmt.Fprintf(w.out, "tick %d: swept %d dead entries\n", tick, n)
	}
}
