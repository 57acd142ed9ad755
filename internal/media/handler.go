package media

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal/telemetry/tracing"
)

type Handler struct {
	store *DiskStore
}

func NewHandler(store *DiskStore) *Handler {
	return &Handler{store: store}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.PathPrefix("/media/").HandlerFunc(handler.handleGet).Methods("GET").Name("media-file")
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "mediaHandler.get")
	defer span.End()

	ref := strings.TrimPrefix(r.URL.Path, "/media/")
	path, err := handler.store.Path(ref)
	if err != nil {
		log.Tracef("media file [%s] not found", ref)
		http.NotFound(w, r)
		return
	}

	if variant := r.URL.Query().Get("variant"); variant != "" {
		log.Tracef("media file [%s] requested as variant [%s], serving original", ref, variant)
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}
