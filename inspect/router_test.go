package inspect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GoCodeAlone/locator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct{ alive bool }

func (p *probe) Alive() bool { return p.alive }

func newTestContainer(t *testing.T) *locator.Container {
	t.Helper()
	c, err := locator.New()
	require.NoError(t, err)
	locator.Register(c, locator.NewKey[*probe]("live"), &probe{alive: true})
	locator.Register(c, locator.NewKey[*probe]("dead"), &probe{})
	return c
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_ListServices(t *testing.T) {
	r := NewRouter(newTestContainer(t))

	rec := do(t, r, http.MethodGet, "/services")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ServicesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "dead", body.Services[0].Key)
	assert.False(t, body.Services[0].Alive)
	assert.Equal(t, "live", body.Services[1].Key)
	assert.True(t, body.Services[1].Alive)
}

func TestRouter_Sweep(t *testing.T) {
	c := newTestContainer(t)
	r := NewRouter(c)

	rec := do(t, r, http.MethodPost, "/sweep")
	require.Equal(t, http.StatusOK, rec.Code)

	var body SweepResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, SweepResponse{Purged: 1, Remaining: 1}, body)

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, r, http.MethodGet, "/sweep").Code)
}

func TestRouter_ObserversAndConfig(t *testing.T) {
	c := newTestContainer(t)
	require.NoError(t, c.RegisterObserver(locator.NewFunctionalObserver("audit", func(context.Context, locator.CloudEvent) error {
		return nil
	})))
	r := NewRouter(c)

	var observers []locator.ObserverInfo
	rec := do(t, r, http.MethodGet, "/observers")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &observers))
	require.Len(t, observers, 1)
	assert.Equal(t, "audit", observers[0].ID)

	var cfg locator.Config
	rec = do(t, r, http.MethodGet, "/config")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, locator.ExpiredRediscover, cfg.ExpiredPolicy)
}
