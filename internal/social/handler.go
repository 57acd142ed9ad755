package social

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/blog"
	"github.com/2beens/quillhub/internal/identity"
	"github.com/2beens/quillhub/internal/pagination"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/pkg"
)

type ReactionPayload struct {
	ID           int       `json:"id"`
	ReactionType string    `json:"reaction_type"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReadingEntryPayload struct {
	ID      int                  `json:"id"`
	Post    blog.PostListPayload `json:"post"`
	AddedAt time.Time            `json:"added_at"`
}

type Handler struct {
	service   *Service
	presenter *blog.Presenter
}

func NewHandler(service *Service, presenter *blog.Presenter) *Handler {
	return &Handler{
		service:   service,
		presenter: presenter,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/reactions/react", handler.handleReact).Methods("POST").Name("reactions-react")
	router.HandleFunc("/reading-list", handler.handleReadingList).Methods("GET").Name("reading-list")
	router.HandleFunc("/reading-list", handler.handleAddToReadingList).Methods("POST").Name("reading-list-add")
	router.HandleFunc("/reading-list/{slug}", handler.handleRemoveFromReadingList).Methods("DELETE").Name("reading-list-remove")
}

func (handler *Handler) handleReact(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "socialHandler.react")
	defer span.End()

	viewer := identity.FromRequest(r)
	if !viewer.IsAuthenticated() {
		apperr.Write(w, r, apperr.Unauthenticated(msgNotAuthenticated))
		return
	}

	var req ReactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("react, unmarshal json: %s", err)
		apperr.Write(w, r, apperr.Validation("invalid request body", nil))
		return
	}

	result, err := handler.service.React(ctx, viewer, req)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	if result.Removed {
		pkg.WriteJSONStatus(w, "removed", http.StatusOK)
		return
	}
	pkg.WriteJSON(w, ReactionPayload{
		ID:           result.Reaction.ID,
		ReactionType: result.Reaction.Type,
		CreatedAt:    result.Reaction.CreatedAt,
	}, http.StatusCreated)
}

func (handler *Handler) handleReadingList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "socialHandler.readingList")
	defer span.End()

	params, err := pagination.FromRequest(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	viewer := identity.FromRequest(r)
	items, total, err := handler.service.ReadingList(ctx, viewer, params)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	posts := make([]*blog.Post, 0, len(items))
	for _, item := range items {
		posts = append(posts, item.Post)
	}
	postPayloads, err := handler.presenter.List(ctx, viewer, posts)
	if err != nil {
		apperr.Write(w, r, apperr.Internal("present reading list", err))
		return
	}

	payloads := make([]ReadingEntryPayload, 0, len(items))
	for i, item := range items {
		payloads = append(payloads, ReadingEntryPayload{
			ID:      item.Entry.ID,
			Post:    postPayloads[i],
			AddedAt: item.Entry.AddedAt,
		})
	}

	pkg.WriteJSON(w, pagination.NewPage(params, total, payloads), http.StatusOK)
}

func (handler *Handler) handleAddToReadingList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "socialHandler.addToReadingList")
	defer span.End()

	viewer := identity.FromRequest(r)
	if !viewer.IsAuthenticated() {
		apperr.Write(w, r, apperr.Unauthenticated(msgNotAuthenticated))
		return
	}

	var req ReadingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add to reading list, unmarshal json: %s", err)
		apperr.Write(w, r, apperr.Validation("invalid request body", nil))
		return
	}

	entry, post, err := handler.service.AddToReadingList(ctx, viewer, req)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	postPayloads, err := handler.presenter.List(ctx, viewer, []*blog.Post{post})
	if err != nil {
		apperr.Write(w, r, apperr.Internal("present reading entry", err))
		return
	}

	pkg.WriteJSON(w, ReadingEntryPayload{
		ID:      entry.ID,
		Post:    postPayloads[0],
		AddedAt: entry.AddedAt,
	}, http.StatusCreated)
}

func (handler *Handler) handleRemoveFromReadingList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "socialHandler.removeFromReadingList")
	defer span.End()

	if err := handler.service.RemoveFromReadingList(ctx, identity.FromRequest(r), mux.Vars(r)["slug"]); err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSONStatus(w, "removed", http.StatusOK)
}
