package locator_test

import (
	"iter"
	"reflect"
	"testing"

	"github.com/GoCodeAlone/locator"
	"github.com/GoCodeAlone/locator/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockHost records how the container queries the host.
type mockHost struct {
	mock.Mock
}

func (m *mockHost) Objects(includeInactive bool) iter.Seq[any] {
	args := m.Called(includeInactive)
	objs := args.Get(0).([]any)
	return func(yield func(any) bool) {
		for _, o := range objs {
			if !yield(o) {
				return
			}
		}
	}
}

func (m *mockHost) FindByType(t reflect.Type) (any, bool) {
	args := m.Called(t)
	return args.Get(0), args.Bool(1)
}

func TestDiscovery_InterfaceScanReturnsFirstMatch(t *testing.T) {
	sc := scene.New()
	sc.Spawn("camera", &sceneCamera{})
	first := &sceneGreeter{name: "first"}
	second := &sceneGreeter{name: "second"}
	sc.Spawn("g1", first)
	sc.Spawn("g2", second)
	c := newContainer(t, locator.WithHost(sc))

	got, err := locator.Get[Greeter](c)
	require.NoError(t, err)
	assert.Same(t, first, got)

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Discovered)
}

func TestDiscovery_CachedResolutionSurvivesNewMatches(t *testing.T) {
	sc := scene.New()
	first := &sceneGreeter{name: "first"}
	sc.Spawn("g1", first)
	c := newContainer(t, locator.WithHost(sc))

	got, err := locator.Get[Greeter](c)
	require.NoError(t, err)
	assert.Same(t, first, got)

	sc.Spawn("g2", &sceneGreeter{name: "second"})

	got, err = locator.Get[Greeter](c)
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestDiscovery_IncludesInactiveObjectsByDefault(t *testing.T) {
	sc := scene.New()
	g := &sceneGreeter{name: "sleeping"}
	sc.Spawn("g", g).SetActive(false)
	c := newContainer(t, locator.WithHost(sc))

	got, err := locator.Get[Greeter](c)
	require.NoError(t, err)
	assert.Same(t, g, got)
}

func TestDiscovery_ExcludeInactive(t *testing.T) {
	sc := scene.New()
	sc.Spawn("g", &sceneGreeter{}).SetActive(false)
	c := newContainer(t, locator.WithHost(sc), locator.WithConfig(&locator.Config{ExcludeInactive: true}))

	_, err := locator.Get[Greeter](c)
	assert.ErrorIs(t, err, locator.ErrServiceNotFound)
}

func TestDiscovery_ConcreteTypeUsesDirectLookup(t *testing.T) {
	cam := &sceneCamera{fov: 60}
	h := &mockHost{}
	h.On("FindByType", reflect.TypeFor[*sceneCamera]()).Return(any(cam), true).Once()
	c := newContainer(t, locator.WithHost(h))
	sc := scene.New()
	sc.Spawn("camera", cam)

	got, err := locator.Get[*sceneCamera](c)
	require.NoError(t, err)
	assert.Same(t, cam, got)

	// Second call is served from the container.
	got, err = locator.Get[*sceneCamera](c)
	require.NoError(t, err)
	assert.Same(t, cam, got)

	h.AssertExpectations(t)
	h.AssertNotCalled(t, "Objects", mock.Anything)
}

func TestDiscovery_InterfaceScanPassesInactiveFlag(t *testing.T) {
	h := &mockHost{}
	h.On("Objects", false).Return([]any{}).Once()
	c := newContainer(t, locator.WithHost(h), locator.WithConfig(&locator.Config{ExcludeInactive: true}))

	_, err := locator.Get[Greeter](c, locator.Optional())
	require.NoError(t, err)
	h.AssertExpectations(t)
}

func TestDiscovery_SkipsDeadObjects(t *testing.T) {
	dead := &sceneGreeter{name: "unattached"}
	live := &sceneGreeter{name: "live"}
	sc := scene.New()
	sc.Spawn("live", live)
	h := &mockHost{}
	h.On("Objects", true).Return([]any{dead, live})
	c := newContainer(t, locator.WithHost(h))

	got, err := locator.Get[Greeter](c)
	require.NoError(t, err)
	assert.Same(t, live, got)
}

func TestDiscovery_RediscoversAfterDestroy(t *testing.T) {
	sc := scene.New()
	first := &sceneGreeter{name: "first"}
	obj := sc.Spawn("g1", first)
	c := newContainer(t, locator.WithHost(sc))

	got, err := locator.Get[Greeter](c)
	require.NoError(t, err)
	assert.Same(t, first, got)

	replacement := &sceneGreeter{name: "replacement"}
	sc.Spawn("g2", replacement)
	obj.Destroy()

	got, err = locator.Get[Greeter](c)
	require.NoError(t, err)
	assert.Same(t, replacement, got)
}

func TestDiscovery_DestroyWithoutReplacementIsExpired(t *testing.T) {
	sc := scene.New()
	obj := sc.Spawn("g1", &sceneGreeter{})
	c := newContainer(t, locator.WithHost(sc))
	_, err := locator.Get[Greeter](c)
	require.NoError(t, err)

	obj.Destroy()

	_, err = locator.Get[Greeter](c)
	assert.ErrorIs(t, err, locator.ErrServiceExpired)

	got, err := locator.Get[Greeter](c, locator.Optional())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDiscovery_FailPolicyNeverRediscovers(t *testing.T) {
	sc := scene.New()
	obj := sc.Spawn("g1", &sceneGreeter{name: "first"})
	c := newContainer(t, locator.WithHost(sc), locator.WithConfig(&locator.Config{ExpiredPolicy: locator.ExpiredFail}))
	_, err := locator.Get[Greeter](c)
	require.NoError(t, err)

	sc.Spawn("g2", &sceneGreeter{name: "replacement"})
	obj.Destroy()

	_, err = locator.Get[Greeter](c)
	assert.ErrorIs(t, err, locator.ErrServiceExpired)

	// The dead entry was purged, so the following lookup discovers again.
	got, err := locator.Get[Greeter](c)
	require.NoError(t, err)
	assert.Equal(t, "hi from replacement", got.Greet())
}

func TestDiscovery_DisabledByConfig(t *testing.T) {
	sc := scene.New()
	sc.Spawn("g", &sceneGreeter{})
	c := newContainer(t, locator.WithHost(sc), locator.WithConfig(&locator.Config{DisableDiscovery: true}))

	_, err := locator.Get[Greeter](c)
	assert.ErrorIs(t, err, locator.ErrServiceNotFound)
}

func TestDiscovery_DisabledPerKey(t *testing.T) {
	sc := scene.New()
	sc.Spawn("g", &sceneGreeter{})
	c := newContainer(t, locator.WithHost(sc))

	_, err := locator.Resolve(c, locator.KeyFor[Greeter]().WithoutDiscovery())
	assert.ErrorIs(t, err, locator.ErrServiceNotFound)
	assert.Equal(t, 0, c.Len())
}

func TestDiscovery_NamedKeyScansInterfaces(t *testing.T) {
	sc := scene.New()
	g := &sceneGreeter{}
	sc.Spawn("g", g)
	c := newContainer(t, locator.WithHost(sc))
	key := locator.NewKey[Greeter]("ui-greeter")

	got, err := locator.Resolve(c, key)
	require.NoError(t, err)
	assert.Same(t, g, got)
	assert.True(t, locator.Contains(c, key))
	assert.False(t, locator.Contains(c, locator.KeyFor[Greeter]()))
}

func TestDiscovery_SetHostNilDisables(t *testing.T) {
	sc := scene.New()
	sc.Spawn("g", &sceneGreeter{})
	c := newContainer(t, locator.WithHost(sc))
	c.SetHost(nil)

	_, err := locator.Get[Greeter](c)
	assert.ErrorIs(t, err, locator.ErrServiceNotFound)
}
