package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/api/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Controller maps the request lifecycle of one resource onto its facade.
// Every facade error goes straight to writeError.
type Controller[T, P any] struct {
	Facade service.Facade[T, P]
}

func NewController[T, P any](f service.Facade[T, P]) *Controller[T, P] {
	return &Controller[T, P]{Facade: f}
}

// decodeBody reads the JSON body into v. Unknown fields are ignored.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return errBadJSON
	}
	return nil
}

func (c *Controller[T, P]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var p P
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := c.Facade.Create(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, doc)
}

func (c *Controller[T, P]) HandlePaginate(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := c.Facade.Paginate(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

func (c *Controller[T, P]) HandleFind(w http.ResponseWriter, r *http.Request) {
	docs, err := c.Facade.Find(r.Context(), parseFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, docs)
}

func (c *Controller[T, P]) HandleFindOne(w http.ResponseWriter, r *http.Request) {
	doc, err := c.Facade.FindOne(r.Context(), parseFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, doc)
}

func (c *Controller[T, P]) HandleFindByID(w http.ResponseWriter, r *http.Request) {
	doc, err := c.Facade.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, doc)
}

func (c *Controller[T, P]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var p P
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := c.Facade.Update(r.Context(), r.PathValue("id"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, doc)
}

func (c *Controller[T, P]) HandleRemove(w http.ResponseWriter, r *http.Request) {
	doc, err := c.Facade.Remove(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, doc)
}
