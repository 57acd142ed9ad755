package users

import (
	"context"
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

const maxAvatarFormBytes = 6 << 20

type Handler struct {
	service   *Service
	presenter *Presenter
}

func NewHandler(service *Service, presenter *Presenter) *Handler {
	return &Handler{
		service:   service,
		presenter: presenter,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users", handler.handleList).Methods("GET").Name("users-list")
	router.HandleFunc("/users/profile", handler.handleGetProfile).Methods("GET").Name("users-profile")
	router.HandleFunc("/users/profile", handler.handleUpdateProfile).Methods("PUT", "PATCH").Name("users-profile-update")
	router.HandleFunc("/users/profile/avatar", handler.handleUploadAvatar).Methods("POST").Name("users-profile-avatar")
	router.HandleFunc("/users/{id:[0-9]+}", handler.handleGet).Methods("GET").Name("users-get")
	router.HandleFunc("/users/{id:[0-9]+}/followers", handler.handleFollowers).Methods("GET").Name("users-followers")
	router.HandleFunc("/users/{id:[0-9]+}/following", handler.handleFollowing).Methods("GET").Name("users-following")
	router.HandleFunc("/users/{id:[0-9]+}/follow", handler.handleFollow).Methods("POST").Name("users-follow")
	router.HandleFunc("/users/{id:[0-9]+}/follow", handler.handleUnfollow).Methods("DELETE").Name("users-unfollow")
}

func userIDVar(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, apperr.NotFound("user not found")
	}
	return id, nil
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.list")
	defer span.End()

	params, err := pagination.FromRequest(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	viewer := identity.FromRequest(r)
	users, total, err := handler.service.List(ctx, params)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	ids := make([]int, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	following, err := handler.service.FollowingAmong(ctx, viewer, ids)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, pagination.NewPage(params, total, handler.presenter.Users(users, following)), http.StatusOK)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.get")
	defer span.End()

	id, err := userIDVar(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	user, err := handler.service.Get(ctx, id)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	following, err := handler.service.FollowingAmong(ctx, identity.FromRequest(r), []int{user.ID})
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, handler.presenter.User(user, following[user.ID]), http.StatusOK)
}

func (handler *Handler) handleFollowers(w http.ResponseWriter, r *http.Request) {
	handler.listFollows(w, r, handler.service.Followers)
}

func (handler *Handler) handleFollowing(w http.ResponseWriter, r *http.Request) {
	handler.listFollows(w, r, handler.service.Following)
}

func (handler *Handler) listFollows(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, userID int, params pagination.Params) ([]FollowEntry, int, error),
) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.listFollows")
	defer span.End()

	id, err := userIDVar(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	params, err := pagination.FromRequest(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	entries, total, err := list(ctx, id, params)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	ids := make([]int, 0, len(entries)*2)
	for _, e := range entries {
		ids = append(ids, e.Follower.ID, e.Following.ID)
	}
	following, err := handler.service.FollowingAmong(ctx, identity.FromRequest(r), ids)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, pagination.NewPage(params, total, handler.presenter.Follows(entries, following)), http.StatusOK)
}

func (handler *Handler) handleFollow(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.follow")
	defer span.End()

	id, err := userIDVar(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	viewer := identity.FromRequest(r)
	if err := handler.service.Follow(ctx, viewer, id); err != nil {
		apperr.Write(w, r, err)
		return
	}

	log.Tracef("%s now follows user %d", viewer, id)
	pkg.WriteJSONStatus(w, "following", http.StatusCreated)
}

func (handler *Handler) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.unfollow")
	defer span.End()

	id, err := userIDVar(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	if err := handler.service.Unfollow(ctx, identity.FromRequest(r), id); err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSONStatus(w, "unfollowed", http.StatusOK)
}

func (handler *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.profile")
	defer span.End()

	user, err := handler.service.Me(ctx, identity.FromRequest(r))
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, handler.presenter.User(user, false), http.StatusOK)
}

func (handler *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.updateProfile")
	defer span.End()

	viewer := identity.FromRequest(r)
	if !viewer.IsAuthenticated() {
		apperr.Write(w, r, apperr.Unauthenticated("authentication credentials were not provided"))
		return
	}

	var update ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Tracef("update profile, unmarshal json: %s", err)
		apperr.Write(w, r, apperr.Validation("invalid request body", nil))
		return
	}

	user, err := handler.service.UpdateProfile(ctx, viewer, update)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, handler.presenter.User(user, false), http.StatusOK)
}

func (handler *Handler) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.uploadAvatar")
	defer span.End()

	viewer := identity.FromRequest(r)
	if !viewer.IsAuthenticated() {
		apperr.Write(w, r, apperr.Unauthenticated("authentication credentials were not provided"))
		return
	}

	if err := r.ParseMultipartForm(maxAvatarFormBytes); err != nil {
		apperr.Write(w, r, apperr.Field("avatar", "invalid multipart form"))
		return
	}
	file, _, err := r.FormFile("avatar")
	if err != nil {
		apperr.Write(w, r, apperr.Field("avatar", "this field is required"))
		return
	}
	defer file.Close()

	user, err := handler.service.UploadAvatar(ctx, viewer, file)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, handler.presenter.User(user, false), http.StatusOK)
}
