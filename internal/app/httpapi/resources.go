package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/conecteai/sales_layer/internal/app/validation"
	"github.com/conecteai/sales_layer/internal/httputil"
	"github.com/conecteai/sales_layer/pkg/logger"
)

// entityService is the operation set shared by the customer, product and
// order services.
type entityService[T any] interface {
	Create(ctx context.Context, in validation.Input) (T, error)
	Update(ctx context.Context, rawID string, in validation.Input) (T, error)
	Delete(ctx context.Context, rawID string) error
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, rawID string) (T, error)
}

// resource serves the five CRUD endpoints of one entity kind.
type resource[T any] struct {
	svc entityService[T]
	msg messages
	log *logger.Logger
}

func (h *resource[T]) fail(w http.ResponseWriter, r *http.Request, invalid, failed string, err error) {
	writeError(w, r, h.log, h.msg, invalid, failed, err)
}

func (h *resource[T]) store(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	created, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, h.msg.createInvalid, h.msg.createFailed, err)
		return
	}
	if h.msg.echoCreate {
		httputil.Data(w, http.StatusCreated, created, h.msg.created)
		return
	}
	httputil.Message(w, http.StatusCreated, h.msg.created)
}

// update serves both PUT /{kind}/{id} and PUT /{kind} with the id in the body.
func (h *resource[T]) update(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	rawID, hasPathID := mux.Vars(r)["id"]
	if !hasPathID {
		rawID = bodyID(in)
	}

	updated, err := h.svc.Update(r.Context(), rawID, in)
	if err != nil {
		h.fail(w, r, h.msg.updateFailed, h.msg.updateFailed, err)
		return
	}
	if h.msg.echoUpdate {
		httputil.Data(w, http.StatusCreated, updated, h.msg.updated)
		return
	}
	httputil.Message(w, http.StatusCreated, h.msg.updated)
}

func (h *resource[T]) destroy(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, h.msg.deleteFailed, h.msg.deleteFailed, err)
		return
	}
	httputil.Message(w, http.StatusOK, h.msg.deleted)
}

func (h *resource[T]) index(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, h.msg.listFailed, h.msg.listFailed, err)
		return
	}
	if len(items) == 0 {
		httputil.Empty(w, h.msg.empty)
		return
	}
	httputil.Listing(w, items)
}

func (h *resource[T]) show(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, h.msg.showFailed, h.msg.showFailed, err)
		return
	}
	httputil.Data(w, http.StatusOK, item, "")
}

// bodyID extracts the "id" member of an update body as text so it goes
// through the same identifier rules as a path segment.
func bodyID(in validation.Input) string {
	switch v := in["id"].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// mount registers the routes of a resource under prefix.
func (h *resource[T]) mount(router *mux.Router, prefix string, bodyUpdate bool) {
	router.HandleFunc(prefix, h.store).Methods(http.MethodPost)
	router.HandleFunc(prefix, h.index).Methods(http.MethodGet)
	if bodyUpdate {
		router.HandleFunc(prefix, h.update).Methods(http.MethodPut)
	}
	router.HandleFunc(prefix+"/{id}", h.update).Methods(http.MethodPut)
	router.HandleFunc(prefix+"/{id}", h.destroy).Methods(http.MethodDelete)
	router.HandleFunc(prefix+"/{id}", h.show).Methods(http.MethodGet)
}
