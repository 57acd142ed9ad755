package blog

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/comments"
	"github.com/2beens/quillhub/internal/identity"
	"github.com/2beens/quillhub/internal/pagination"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=blog_test

const maxImageFormBytes = 6 << 20

type postComments interface {
	ForPost(ctx context.Context, viewer identity.Viewer, postID int) ([]*comments.Comment, error)
	ApprovedCount(ctx context.Context, postID int) (int, error)
}

type Handler struct {
	service   *Service
	taxonomy  *TaxonomyService
	presenter *Presenter
	comments  postComments
}

func NewHandler(
	service *Service,
	taxonomy *TaxonomyService,
	presenter *Presenter,
	comments postComments,
) *Handler {
	return &Handler{
		service:   service,
		taxonomy:  taxonomy,
		presenter: presenter,
		comments:  comments,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/posts", handler.handleList).Methods("GET").Name("posts-list")
	router.HandleFunc("/posts", handler.handleCreate).Methods("POST").Name("posts-create")
	router.HandleFunc("/posts/my-posts", handler.handleMyPosts).Methods("GET").Name("posts-mine")
	router.HandleFunc("/posts/drafts", handler.handleDrafts).Methods("GET").Name("posts-drafts")
	router.HandleFunc("/posts/statistics", handler.handleStatistics).Methods("GET").Name("posts-statistics")
	router.HandleFunc("/posts/{slug}", handler.handleGet).Methods("GET").Name("posts-get")
	router.HandleFunc("/posts/{slug}", handler.handleUpdate).Methods("PUT", "PATCH").Name("posts-update")
	router.HandleFunc("/posts/{slug}", handler.handleDelete).Methods("DELETE").Name("posts-delete")
	router.HandleFunc("/posts/{slug}/image", handler.handleUploadImage).Methods("POST").Name("posts-image")

	router.HandleFunc("/categories", handler.handleCategories).Methods("GET").Name("categories-list")
	router.HandleFunc("/categories", handler.handleCreateCategory).Methods("POST").Name("categories-create")
	router.HandleFunc("/categories/{slug}", handler.handleCategory).Methods("GET").Name("categories-get")
	router.HandleFunc("/tags", handler.handleTags).Methods("GET").Name("tags-list")
	router.HandleFunc("/tags", handler.handleCreateTag).Methods("POST").Name("tags-create")
	router.HandleFunc("/tags/{slug}", handler.handleTag).Methods("GET").Name("tags-get")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.list")
	defer span.End()

	filter, err := ParseListFilter(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	handler.writePage(ctx, w, r, func(ctx context.Context, viewer identity.Viewer, params pagination.Params) ([]*Post, int, error) {
		return handler.service.List(ctx, viewer, filter, params)
	})
}

func (handler *Handler) handleMyPosts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.myPosts")
	defer span.End()

	handler.writePage(ctx, w, r, handler.service.MyPosts)
}

func (handler *Handler) handleDrafts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.drafts")
	defer span.End()

	handler.writePage(ctx, w, r, handler.service.Drafts)
}

func (handler *Handler) writePage(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, viewer identity.Viewer, params pagination.Params) ([]*Post, int, error),
) {
	params, err := pagination.FromRequest(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	viewer := identity.FromRequest(r)
	posts, total, err := list(ctx, viewer, params)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	payloads, err := handler.presenter.List(ctx, viewer, posts)
	if err != nil {
		apperr.Write(w, r, apperr.Internal("present posts", err))
		return
	}

	pkg.WriteJSON(w, pagination.NewPage(params, total, payloads), http.StatusOK)
}

func (handler *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.statistics")
	defer span.End()

	stats, err := handler.service.Statistics(ctx)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, handler.presenter.Statistics(stats), http.StatusOK)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.get")
	defer span.End()

	viewer := identity.FromRequest(r)
	post, err := handler.service.Read(ctx, viewer, mux.Vars(r)["slug"])
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	handler.writeDetail(ctx, w, r, viewer, post, http.StatusOK)
}

func (handler *Handler) writeDetail(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	viewer identity.Viewer,
	post *Post,
	status int,
) {
	postComments, err := handler.comments.ForPost(ctx, viewer, post.ID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	approved, err := handler.comments.ApprovedCount(ctx, post.ID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	payload, err := handler.presenter.Detail(ctx, viewer, post, postComments, approved)
	if err != nil {
		apperr.Write(w, r, apperr.Internal("present post", err))
		return
	}

	pkg.WriteJSON(w, payload, status)
}

func decodePostInput(w http.ResponseWriter, r *http.Request) (PostInput, bool) {
	var input PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Tracef("post input, unmarshal json: %s", err)
		apperr.Write(w, r, apperr.Validation("invalid request body", nil))
		return PostInput{}, false
	}
	return input, true
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.create")
	defer span.End()

	viewer := identity.FromRequest(r)
	if !viewer.IsAuthenticated() {
		apperr.Write(w, r, apperr.Unauthenticated(msgNotAuthenticated))
		return
	}

	input, ok := decodePostInput(w, r)
	if !ok {
		return
	}

	post, err := handler.service.Create(ctx, viewer, input)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	handler.writeDetail(ctx, w, r, viewer, post, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.update")
	defer span.End()

	viewer := identity.FromRequest(r)
	if !viewer.IsAuthenticated() {
		apperr.Write(w, r, apperr.Unauthenticated(msgNotAuthenticated))
		return
	}

	input, ok := decodePostInput(w, r)
	if !ok {
		return
	}

	partial := r.Method == http.MethodPatch
	post, err := handler.service.Update(ctx, viewer, mux.Vars(r)["slug"], input, partial)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	handler.writeDetail(ctx, w, r, viewer, post, http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.delete")
	defer span.End()

	if err := handler.service.Delete(ctx, identity.FromRequest(r), mux.Vars(r)["slug"]); err != nil {
		apperr.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.uploadImage")
	defer span.End()

	viewer := identity.FromRequest(r)
	if !viewer.IsAuthenticated() {
		apperr.Write(w, r, apperr.Unauthenticated(msgNotAuthenticated))
		return
	}

	if err := r.ParseMultipartForm(maxImageFormBytes); err != nil {
		apperr.Write(w, r, apperr.Field("featured_image", "invalid multipart form"))
		return
	}
	file, _, err := r.FormFile("featured_image")
	if err != nil {
		apperr.Write(w, r, apperr.Field("featured_image", "this field is required"))
		return
	}
	defer file.Close()

	post, err := handler.service.UploadImage(ctx, viewer, mux.Vars(r)["slug"], file)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	handler.writeDetail(ctx, w, r, viewer, post, http.StatusOK)
}

func (handler *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "taxonomyHandler.categories")
	defer span.End()

	categories, err := handler.taxonomy.Categories(ctx)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	pkg.WriteJSON(w, categories, http.StatusOK)
}

func (handler *Handler) handleCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "taxonomyHandler.category")
	defer span.End()

	category, err := handler.taxonomy.Category(ctx, mux.Vars(r)["slug"])
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	pkg.WriteJSON(w, category, http.StatusOK)
}

func (handler *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "taxonomyHandler.createCategory")
	defer span.End()

	var input CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Write(w, r, apperr.Validation("invalid request body", nil))
		return
	}

	category, err := handler.taxonomy.CreateCategory(ctx, identity.FromRequest(r), input)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	pkg.WriteJSON(w, category, http.StatusCreated)
}

func (handler *Handler) handleTags(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "taxonomyHandler.tags")
	defer span.End()

	tags, err := handler.taxonomy.Tags(ctx)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	pkg.WriteJSON(w, tags, http.StatusOK)
}

func (handler *Handler) handleTag(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "taxonomyHandler.tag")
	defer span.End()

	tag, err := handler.taxonomy.Tag(ctx, mux.Vars(r)["slug"])
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	pkg.WriteJSON(w, tag, http.StatusOK)
}

func (handler *Handler) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "taxonomyHandler.createTag")
	defer span.End()

	var input TagInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Write(w, r, apperr.Validation("invalid request body", nil))
		return
	}

	tag, err := handler.taxonomy.CreateTag(ctx, identity.FromRequest(r), input)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	pkg.WriteJSON(w, tag, http.StatusCreated)
}
