package locator

// TickSweeper drives Container.Sweep from the host's update loop. Call
// Tick once per frame; it sweeps whenever the tick count is a multiple of
// Config.SweepEveryTicks. The interval is read on every tick, so
// ApplyConfig takes effect immediately.
type TickSweeper struct {
	container *Container
	ticks     uint64
}

// NewTickSweeper creates a sweeper for c.
func NewTickSweeper(c *Container) *TickSweeper {
	return &TickSweeper{container: c}
}

// Tick advances the tick counter and returns the number of entries purged
// on this tick.
func (s *TickSweeper) Tick() int {
	s.ticks++
	every := s.container.Config().SweepEveryTicks
	if every <= 0 || s.ticks%uint64(every) != 0 {
		return 0
	}
	return s.container.Sweep()
}

// Ticks returns how many times Tick has been called.
func (s *TickSweeper) Ticks() uint64 {
	return s.ticks
}
