package apperr

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/pkg"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Write renders err as a JSON error body. Internal errors are logged and
// their details are never sent to the client.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == KindInternal {
		log.Errorf("[%s %s] internal error: %s", r.Method, r.URL.Path, err)
		pkg.WriteJSON(w, errorResponse{Error: "internal server error"}, http.StatusInternalServerError)
		return
	}

	log.Tracef("[%s %s] %s", r.Method, r.URL.Path, appErr)
	pkg.WriteJSON(w, errorResponse{
		Error:  appErr.Message,
		Fields: appErr.Fields,
	}, appErr.Kind.HTTPStatus())
}
