package httpapi

import (
	"errors"
	"net/http"

	"github.com/conecteai/sales_layer/internal/app/validation"
	apperrors "github.com/conecteai/sales_layer/internal/errors"
	"github.com/conecteai/sales_layer/internal/httputil"
	"github.com/conecteai/sales_layer/pkg/logger"
)

// writeError translates a service error into its envelope. invalid is the
// message for a 400 and failed the one for a 500.
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, msg messages, invalid, failed string, err error) {
	svcErr := apperrors.GetServiceError(err)
	if svcErr == nil {
		svcErr = apperrors.Internal("unexpected error", err)
	}

	switch svcErr.Code {
	case apperrors.CodeValidation:
		var verr *validation.Error
		if errors.As(err, &verr) {
			httputil.Data(w, http.StatusBadRequest, verr.Violations, invalid)
			return
		}
		httputil.Message(w, http.StatusBadRequest, invalid)
	case apperrors.CodeBadRequest:
		httputil.Message(w, http.StatusBadRequest, msgInvalidBody)
	case apperrors.CodeNotFound:
		message, ok := notFoundMessages[svcErr.Resource()]
		if !ok {
			message = msg.notFound
		}
		httputil.Message(w, http.StatusNotFound, message)
	case apperrors.CodeConflict:
		httputil.Message(w, http.StatusConflict, msg.referenced)
	case apperrors.CodeUnauthorized, apperrors.CodeInvalidToken:
		httputil.Message(w, http.StatusUnauthorized, msgUnauthorized)
	default:
		log.ForContext(r.Context()).WithError(err).
			WithField("path", r.URL.Path).
			Error("request failed")
		httputil.Message(w, http.StatusInternalServerError, failed)
	}
}

// decodeInput reads the request body. A malformed body is answered here and
// reported with ok=false.
func decodeInput(w http.ResponseWriter, r *http.Request) (validation.Input, bool) {
	raw, err := httputil.DecodeInput(r.Body)
	if err != nil {
		httputil.Message(w, http.StatusBadRequest, msgInvalidBody)
		return nil, false
	}
	return validation.Input(raw), true
}
