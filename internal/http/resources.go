package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"portfolio-backend-go/internal/services"
	"portfolio-backend-go/internal/storage"
)

// resource serves CRUD routes for one entity kind.
type resource[E, In, P any] struct {
	s      *Server
	name   string // "Project"
	single string // "project"
	plural string // "projects"
	store  storage.Collection[E, In, P]
}

func newResource[E, In, P any](s *Server, name, single, plural string, store storage.Collection[E, In, P]) resource[E, In, P] {
	return resource[E, In, P]{s: s, name: name, single: single, plural: plural, store: store}
}

func (res resource[E, In, P]) mount(r chi.Router) {
	r.Get("/", res.List)
	r.Get("/{id}", res.Get)
	r.With(RequireAdmin).Post("/", res.Create)
	r.With(RequireAdmin).Put("/{id}", res.Update)
	r.With(RequireAdmin).Delete("/{id}", res.Delete)
}

func (res resource[E, In, P]) List(w http.ResponseWriter, r *http.Request) {
	items, err := res.store.List(r.Context())
	if err != nil {
		res.fail(w, r, err, "fetch "+res.plural)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (res resource[E, In, P]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := res.store.Get(r.Context(), id)
	if err != nil {
		res.fail(w, r, err, "fetch "+res.single)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (res resource[E, In, P]) Create(w http.ResponseWriter, r *http.Request) {
	var in In
	if !res.s.decodeValid(w, r, &in) {
		return
	}
	item, err := res.store.Create(r.Context(), in)
	if err != nil {
		res.fail(w, r, err, "create "+res.single)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

func (res resource[E, In, P]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch P
	if !res.s.decodeValid(w, r, &patch) {
		return
	}
	item, err := res.store.Update(r.Context(), id, patch)
	if err != nil {
		res.fail(w, r, err, "update "+res.single)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (res resource[E, In, P]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := res.store.Delete(r.Context(), id); err != nil {
		res.fail(w, r, err, "delete "+res.single)
		return
	}
	WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// fail maps a storage error to a response. Unexpected errors are logged and
// answered with "Failed to <action>".
func (res resource[E, In, P]) fail(w http.ResponseWriter, r *http.Request, err error, action string) {
	var missing *storage.MissingIDError
	switch {
	case errors.As(err, &missing):
		writeServiceError(w, services.ErrNotFound(fmt.Sprintf("%s with ID %d not found", res.name, missing.ID)))
	case errors.Is(err, storage.ErrNotFound):
		writeServiceError(w, services.ErrNotFound(res.name+" not found"))
	case errors.Is(err, storage.ErrInvalidReference):
		writeServiceError(w, services.ErrInvalidFields(services.FieldError{
			Field:   "categoryId",
			Message: "must reference an existing skill category",
		}))
	default:
		res.s.logError(r, "failed to "+action, err)
		WriteError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// reorder serves POST /<kind>/reorder. The id list is read from field.
func reorder[E, In, P any](res resource[E, In, P], store storage.OrderedCollection[E, In, P], field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := decodeIDList(w, r, field)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		items, err := store.Reorder(r.Context(), ids)
		if err != nil {
			res.fail(w, r, err, "reorder "+res.plural)
			return
		}
		WriteJSON(w, http.StatusOK, items)
	}
}

func decodeIDList(w http.ResponseWriter, r *http.Request, field string) ([]int, error) {
	body := map[string]json.RawMessage{}
	if err := decodeJSON(w, r, &body); err != nil {
		return nil, err
	}
	notArray := services.ErrBadRequest(field + " must be an array")
	raw, ok := body[field]
	if !ok || len(raw) == 0 || raw[0] != '[' {
		return nil, notArray
	}
	ids := []int{}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, services.ErrBadRequest(field + " must be an array of ids")
	}
	return ids, nil
}

// parseID accepts ids that fit the 32-bit serial columns of the relational
// backend, so both backends see the same range.
func parseID(raw string) (int, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	return int(id), err
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// decodeValid decodes the body into dst and validates it, writing the error
// response itself when either step fails.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		writeServiceError(w, err)
		return false
	}
	if err := s.Validator.Struct(dst); err != nil {
		writeServiceError(w, err)
		return false
	}
	return true
}
