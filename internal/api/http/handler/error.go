package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ideaforge/auth-server/internal/apierrors"
	"github.com/ideaforge/auth-server/internal/model"
)

// errorResponse is the JSON body written for every failed request.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func httpStatus(kind apierrors.Kind) int {
	switch kind {
	case apierrors.KindInvalidArgument, apierrors.KindFailedPrecondition:
		return http.StatusBadRequest
	case apierrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apierrors.KindPermissionDenied:
		return http.StatusForbidden
	case apierrors.KindNotFound:
		return http.StatusNotFound
	case apierrors.KindAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps domain errors to HTTP responses. Anything unrecognised is
// reported as an opaque internal error so wrapped store errors never leak.
func writeError(w http.ResponseWriter, err error) {
	if apiErr, ok := apierrors.AsAPIError(err); ok {
		writeJSON(w, httpStatus(apiErr.Kind), errorResponse{Code: apiErr.Code, Message: apiErr.Message})
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: "not found"})
		return
	}

	internal := apierrors.NewErrInternal()
	writeJSON(w, http.StatusInternalServerError, errorResponse{Code: internal.Code, Message: internal.Message})
}
