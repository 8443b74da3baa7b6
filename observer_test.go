package locator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/GoCodeAlone/locator"
	"github.com/GoCodeAlone/locator/scene"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver keeps every event it receives.
type recordingObserver struct {
	id     string
	events []cloudevents.Event
}

func (r *recordingObserver) OnEvent(_ context.Context, event cloudevents.Event) error {
	r.events = append(r.events, event)
	return nil
}

func (r *recordingObserver) ObserverID() string { return r.id }

func (r *recordingObserver) types() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type())
	}
	return out
}

func TestObserver_ReceivesLifecycleEvents(t *testing.T) {
	rec := &recordingObserver{id: "rec"}
	sc := scene.New()
	obj := sc.Spawn("g", &sceneGreeter{})
	c := newContainer(t, locator.WithHost(sc), locator.WithObserver(rec))

	locator.Set(c, &killable{})
	locator.Set(c, &killable{})
	_, err := locator.Get[Greeter](c)
	require.NoError(t, err)
	obj.Destroy()
	_, _ = locator.Get[Greeter](c, locator.Optional())
	locator.Remove[*killable](c)

	assert.Equal(t, []string{
		locator.EventTypeServiceRegistered,
		locator.EventTypeServiceReplaced,
		locator.EventTypeServiceDiscovered,
		locator.EventTypeServiceExpired,
		locator.EventTypeServiceUnregistered,
	}, rec.types())

	var data locator.ServiceEventData
	require.NoError(t, rec.events[1].DataAs(&data))
	assert.True(t, data.Replaced)
	assert.Equal(t, "*locator_test.killable", data.Key)
	assert.Equal(t, "locator", rec.events[0].Source())
}

func TestObserver_FiltersByEventType(t *testing.T) {
	rec := &recordingObserver{id: "rec"}
	c := newContainer(t)
	require.NoError(t, c.RegisterObserver(rec, locator.EventTypeServiceUnregistered))

	locator.Set(c, &killable{})
	locator.Remove[*killable](c)
	locator.Remove[*killable](c)

	assert.Equal(t, []string{locator.EventTypeServiceUnregistered}, rec.types())
}

func TestObserver_SweepEmitsCount(t *testing.T) {
	rec := &recordingObserver{id: "rec"}
	c := newContainer(t, locator.WithObserver(rec, locator.EventTypeServiceSwept))
	locator.Register(c, locator.NewKey[*killable]("a"), &killable{dead: true})
	locator.Register(c, locator.NewKey[*killable]("b"), &killable{dead: true})

	assert.Equal(t, 2, c.Sweep())
	assert.Equal(t, 0, c.Sweep())

	require.Len(t, rec.events, 1)
	var data locator.ServiceEventData
	require.NoError(t, rec.events[0].DataAs(&data))
	assert.Equal(t, 2, data.Count)
}

func TestObserver_ErrorsAndPanicsDoNotFailOperations(t *testing.T) {
	c := newContainer(t)
	require.NoError(t, c.RegisterObserver(locator.NewFunctionalObserver("fails", func(context.Context, cloudevents.Event) error {
		return errors.New("boom")
	})))
	require.NoError(t, c.RegisterObserver(locator.NewFunctionalObserver("panics", func(context.Context, cloudevents.Event) error {
		panic("boom")
	})))
	rec := &recordingObserver{id: "rec"}
	require.NoError(t, c.RegisterObserver(rec))

	assert.NotPanics(t, func() { locator.Set(c, &killable{}) })
	assert.Len(t, rec.events, 1)
}

func TestObserver_CanCallBackIntoContainer(t *testing.T) {
	c := newContainer(t)
	var seen int
	require.NoError(t, c.RegisterObserver(locator.NewFunctionalObserver("reentrant", func(context.Context, cloudevents.Event) error {
		seen = c.Len()
		return nil
	})))

	locator.Set(c, &killable{})
	assert.Equal(t, 1, seen)
}

func TestObserver_RegisterReplaceAndUnregister(t *testing.T) {
	c := newContainer(t)
	assert.ErrorIs(t, c.RegisterObserver(nil), locator.ErrObserverNil)
	assert.ErrorIs(t, c.RegisterObserver(&recordingObserver{}), locator.ErrObserverNoID)

	rec := &recordingObserver{id: "rec"}
	require.NoError(t, c.RegisterObserver(rec, locator.EventTypeServiceRegistered))
	require.NoError(t, c.RegisterObserver(rec))

	infos := c.GetObservers()
	require.Len(t, infos, 1)
	assert.Equal(t, "rec", infos[0].ID)
	assert.Empty(t, infos[0].EventTypes)

	require.NoError(t, c.UnregisterObserver(rec))
	require.NoError(t, c.UnregisterObserver(rec))
	assert.Empty(t, c.GetObservers())
}

func TestNotifyObservers_RejectsInvalidEvent(t *testing.T) {
	c := newContainer(t)
	err := c.NotifyObservers(context.Background(), cloudevents.NewEvent())
	assert.ErrorIs(t, err, locator.ErrInvalidEvent)
}
