package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]any

func (api *solverAPI) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (api *solverAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	var body errorResponse
	body.Error.Code = code
	body.Error.Message = message
	if err := api.writeJSON(w, status, body, nil); err != nil {
		api.log.Error("write error response", zap.Error(err), zap.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *solverAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("server error", zap.Error(err), zap.String("method", r.Method), zap.String("path", r.URL.Path))
	api.errorResponse(w, r, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "the server encountered a problem and could not process your request")
}

func (api *solverAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
}

func (api *solverAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusNotFound, "NOT_FOUND", err.Error())
}

// getStatusCode writes the error response matching the error code carried by err.
func (api *solverAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidProblem), errors.Is(err, util.ErrBadParamInput):
		api.BadRequestResponse(w, r, err)
	case errors.Is(err, util.ErrNotFound):
		api.NotFoundResponse(w, r, err)
	case errors.Is(err, util.ErrNoSolution):
		api.errorResponse(w, r, http.StatusUnprocessableEntity, "NO_SOLUTION", err.Error())
	case errors.Is(err, util.ErrSearchAborted):
		api.errorResponse(w, r, http.StatusRequestTimeout, "SEARCH_ABORTED", err.Error())
	default:
		api.ServerErrorResponse(w, r, err)
	}
}

func translateError(err error, trans ut.Translator) []error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []error{err}
	}
	errs := make([]error, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}
