package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio-backend-go/internal/storage"
)

// singletonResource serves GET and PUT for a kind with at most one row.
type singletonResource[E, P any] struct {
	s     *Server
	label string // "settings"
	store storage.Singleton[E, P]
}

func (res singletonResource[E, P]) mount(r chi.Router) {
	r.Get("/", res.Get)
	r.With(RequireAdmin).Put("/", res.Update)
}

func (res singletonResource[E, P]) Get(w http.ResponseWriter, r *http.Request) {
	item, err := res.store.Get(r.Context())
	if err != nil {
		res.s.logError(r, "failed to fetch "+res.label, err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch "+res.label)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (res singletonResource[E, P]) Update(w http.ResponseWriter, r *http.Request) {
	var patch P
	if !res.s.decodeValid(w, r, &patch) {
		return
	}
	item, err := res.store.Upsert(r.Context(), patch)
	if err != nil {
		res.s.logError(r, "failed to update "+res.label, err)
		WriteError(w, http.StatusInternalServerError, "Failed to update "+res.label)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}
