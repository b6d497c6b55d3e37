package httpapi

import (
	"net/http"

	"github.com/conecteai/sales_layer/internal/app/auth"
	apperrors "github.com/conecteai/sales_layer/internal/errors"
	"github.com/conecteai/sales_layer/internal/httputil"
	"github.com/conecteai/sales_layer/internal/middleware"
	"github.com/conecteai/sales_layer/pkg/logger"
)

// identity serves user registration, login and the current user lookup.
type identity struct {
	auth *auth.Manager
	log  *logger.Logger
}

func (h *identity) register(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, messages{}, msgUserInvalid, msgUserInvalid, err)
		return
	}
	httputil.Data(w, http.StatusCreated, user, msgUserCreated)
}

func (h *identity) login(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	token, err := h.auth.Login(r.Context(), in)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeUnauthorized) {
			httputil.Message(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		writeError(w, r, h.log, messages{}, msgLoginInvalid, msgLoginInvalid, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, token)
}

func (h *identity) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Me(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, h.log, messages{}, msgUnauthorized, msgUnexpectedError, err)
		return
	}
	httputil.Data(w, http.StatusOK, user, "")
}
