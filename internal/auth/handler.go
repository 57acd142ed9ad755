package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/internal/users"
	"github.com/2beens/quillhub/pkg"
)

type authResponse struct {
	TokenPair
	User users.UserPayload `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type Handler struct {
	service   *Service
	presenter *users.Presenter
}

func NewHandler(service *Service, presenter *users.Presenter) *Handler {
	return &Handler{
		service:   service,
		presenter: presenter,
	}
}

// SetupRoutes expects a router already scoped to the /auth prefix.
func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/register", handler.handleRegister).Methods("POST").Name("auth-register")
	router.HandleFunc("/login", handler.handleLogin).Methods("POST").Name("auth-login")
	router.HandleFunc("/logout", handler.handleLogout).Methods("POST").Name("auth-logout")
	router.HandleFunc("/refresh", handler.handleRefresh).Methods("POST").Name("auth-refresh")
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Tracef("[%s] unmarshal json params: %s", r.URL.Path, err)
		return apperr.Validation("invalid request body", nil)
	}
	return nil
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.register")
	defer span.End()

	var req RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}

	user, pair, err := handler.service.Register(ctx, req)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	log.Infof("new user registered: %d [%s]", user.ID, user.Username)
	pkg.WriteJSON(w, authResponse{
		TokenPair: pair,
		User:      handler.presenter.User(user, false),
	}, http.StatusCreated)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}

	user, pair, err := handler.service.Login(ctx, req)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, authResponse{
		TokenPair: pair,
		User:      handler.presenter.User(user, false),
	}, http.StatusOK)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	var req refreshRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			apperr.Write(w, r, err)
			return
		}
	}

	if err := handler.service.Logout(ctx, req.RefreshToken, BearerToken(r)); err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, map[string]string{"message": "Successfully logged out"}, http.StatusOK)
}

func (handler *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.refresh")
	defer span.End()

	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}

	access, err := handler.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	pkg.WriteJSON(w, map[string]string{"access_token": access}, http.StatusOK)
}
