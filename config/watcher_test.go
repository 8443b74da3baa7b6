package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GoCodeAlone/locator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_AppliesChangedFile(t *testing.T) {
	path := writeConfig(t, "locator.yaml", "sweep_every_ticks: 10\n")
	c, err := locator.New()
	require.NoError(t, err)

	w, err := Watch(context.Background(), path, c, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	assert.True(t, w.IsWatching())

	require.NoError(t, os.WriteFile(path, []byte("sweep_every_ticks: 25\nexpired_policy: fail\n"), 0600))

	assert.Eventually(t, func() bool {
		cfg := c.Config()
		return cfg.SweepEveryTicks == 25 && cfg.ExpiredPolicy == locator.ExpiredFail
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_KeepsConfigOnInvalidReload(t *testing.T) {
	path := writeConfig(t, "locator.yaml", "sweep_every_ticks: 10\n")
	reloaded := make(chan *locator.Config, 4)
	w := NewWatcher(path, func(cfg *locator.Config) error {
		reloaded <- cfg
		return nil
	}, WithDebounce(50*time.Millisecond))
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, os.WriteFile(path, []byte("expired_policy: bogus\n"), 0600))
	require.NoError(t, os.WriteFile(path, []byte("sweep_every_ticks: 11\n"), 0600))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 11, cfg.SweepEveryTicks)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload received")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	path := writeConfig(t, "locator.yaml", "sweep_every_ticks: 10\n")
	calls := make(chan struct{}, 1)
	w := NewWatcher(path, func(*locator.Config) error {
		calls <- struct{}{}
		return nil
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x: 1\n"), 0600))

	select {
	case <-calls:
		t.Fatal("unexpected reload for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_StartStop(t *testing.T) {
	w := NewWatcher("", func(*locator.Config) error { return nil })
	assert.ErrorIs(t, w.Start(context.Background()), ErrNoPath)
	assert.NoError(t, w.Stop())

	path := writeConfig(t, "locator.yaml", "")
	w = NewWatcher(path, func(*locator.Config) error { return nil })
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	assert.False(t, w.IsWatching())
}
