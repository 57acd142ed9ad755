package comments

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/identity"
	"github.com/2beens/quillhub/internal/pagination"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/pkg"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/comments", handler.handleList).Methods("GET").Name("comments-list")
	router.HandleFunc("/comments", handler.handleCreate).Methods("POST").Name("comments-create")
	router.HandleFunc("/comments/{id:[0-9]+}", handler.handleGet).Methods("GET").Name("comments-get")
	router.HandleFunc("/comments/{id:[0-9]+}", handler.handleUpdate).Methods("PATCH").Name("comments-update")
	router.HandleFunc("/comments/{id:[0-9]+}", handler.handleDelete).Methods("DELETE").Name("comments-delete")
	router.HandleFunc("/comments/{id:[0-9]+}/approve", handler.handleApprove).Methods("POST").Name("comments-approve")
}

func commentIDVar(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, apperr.NotFound("comment not found")
	}
	return id, nil
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "commentsHandler.list")
	defer span.End()

	params, err := pagination.FromRequest(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	comments, total, err := handler.service.List(ctx, identity.FromRequest(r), r.URL.Query().Get("post"), params)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, pagination.NewPage(params, total, NewPayloads(comments)), http.StatusOK)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "commentsHandler.get")
	defer span.End()

	id, err := commentIDVar(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	comment, err := handler.service.Get(ctx, identity.FromRequest(r), id)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, NewPayload(comment), http.StatusOK)
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "commentsHandler.create")
	defer span.End()

	var input NewComment
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Tracef("create comment, unmarshal json: %s", err)
		apperr.Write(w, r, apperr.Validation("invalid request body", nil))
		return
	}

	comment, err := handler.service.Create(ctx, identity.FromRequest(r), input)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, NewPayload(comment), http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "commentsHandler.update")
	defer span.End()

	id, err := commentIDVar(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	var update Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Tracef("update comment, unmarshal json: %s", err)
		apperr.Write(w, r, apperr.Validation("invalid request body", nil))
		return
	}

	comment, err := handler.service.Update(ctx, identity.FromRequest(r), id, update)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, NewPayload(comment), http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "commentsHandler.delete")
	defer span.End()

	id, err := commentIDVar(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	if err := handler.service.Delete(ctx, identity.FromRequest(r), id); err != nil {
		apperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "commentsHandler.approve")
	defer span.End()

	id, err := commentIDVar(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	if err := handler.service.Approve(ctx, identity.FromRequest(r), id); err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSONStatus(w, "comment approved", http.StatusOK)
}
