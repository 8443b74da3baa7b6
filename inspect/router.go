// Package inspect exposes a read-mostly HTTP view of a container for
// development builds.
package inspect

import (
	"encoding/json"
	"net/http"

	"github.com/GoCodeAlone/locator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ServicesResponse is the body of GET /services.
type ServicesResponse struct {
	Count    int                 `json:"count"`
	Services []locator.EntryInfo `json:"services"`
}

// SweepResponse is the body of POST /sweep.
type SweepResponse struct {
	Purged    int `json:"purged"`
	Remaining int `json:"remaining"`
}

// NewRouter returns a chi router serving:
//
//	GET  /services   every entry with its liveness
//	POST /sweep      purge dead entries
//	GET  /observers  registered observers
//	GET  /config     current container settings
func NewRouter(c *locator.Container) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	h := &handler{container: c}
	r.Get("/services", h.listServices)
	r.Post("/sweep", h.sweep)
	r.Get("/observers", h.listObservers)
	r.Get("/config", h.config)
	return r
}

type handler struct {
	container *locator.Container
}

func (h *handler) listServices(w http.ResponseWriter, _ *http.Request) {
	entries := h.container.Entries()
	writeJSON(w, http.StatusOK, ServicesResponse{Count: len(entries), Services: entries})
}

func (h *handler) sweep(w http.ResponseWriter, _ *http.Request) {
	purged := h.container.Sweep()
	writeJSON(w, http.StatusOK, SweepResponse{Purged: purged, Remaining: h.container.Len()})
}

func (h *handler) listObservers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.container.GetObservers())
}

func (h *handler) config(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.container.Config())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
