package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wanderlust/wanderlust/internal/auth"
	"github.com/wanderlust/wanderlust/internal/form"
	"github.com/wanderlust/wanderlust/internal/middleware"
	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/render"
	"github.com/wanderlust/wanderlust/internal/service"
)

const signupPath = "/signup"

// UserHandler handles signup, login and logout.
type UserHandler struct {
	svc       *service.UserService
	responder *render.Responder
	logger    *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, responder *render.Responder, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:       svc,
		responder: responder,
		logger:    logger,
	}
}

// SignupForm handles GET /signup.
func (h *UserHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.responder.Page(w, r, http.StatusOK, render.ViewUsersSignup, nil)
}

// Signup handles POST /signup. A new account is logged in right away.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	in, err := form.ParseSignup(r)
	if err != nil {
		render.Redirect(w, r, model.FlashError, err.Error(), signupPath)
		return
	}

	user, err := h.svc.Signup(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			render.Redirect(w, r, model.FlashError, MsgUsernameTaken, signupPath)
		case errors.Is(err, service.ErrEmailTaken):
			render.Redirect(w, r, model.FlashError, MsgEmailTaken, signupPath)
		default:
			internalError(w, r, h.responder, h.logger, "signup failed", err)
		}
		return
	}

	auth.SessionFromContext(r.Context()).Login(user)
	render.Redirect(w, r, model.FlashSuccess, MsgWelcome, middleware.ListingsPath)
}

// LoginForm handles GET /login.
func (h *UserHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.responder.Page(w, r, http.StatusOK, render.ViewUsersLogin, nil)
}

// Login handles POST /login. The destination remembered by the login guard
// is consumed here.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	in, err := form.ParseLogin(r)
	if err != nil {
		render.Redirect(w, r, model.FlashError, MsgInvalidCredentials, middleware.LoginPath)
		return
	}

	user, err := h.svc.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			render.Redirect(w, r, model.FlashError, MsgInvalidCredentials, middleware.LoginPath)
			return
		}
		internalError(w, r, h.responder, h.logger, "login failed", err)
		return
	}

	sess := auth.SessionFromContext(r.Context())
	dest := auth.ResolveLoginRedirect(sess.ConsumeReturnTo())
	sess.Login(user)

	h.logger.Info("user_logged_in",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	render.Redirect(w, r, model.FlashSuccess, MsgWelcomeBack, dest)
}

// Logout handles GET /logout.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := auth.SessionFromContext(r.Context()); sess != nil {
		sess.Logout()
	}
	render.Redirect(w, r, model.FlashSuccess, MsgLoggedOut, middleware.ListingsPath)
}
