// Package render turns page results into HTTP responses.
//
// Templates are out of scope for this service: the default Renderer writes
// the page payload as JSON, which a template layer or a client can consume.
package render

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wanderlust/wanderlust/internal/auth"
	"github.com/wanderlust/wanderlust/internal/model"
)

// View names.
const (
	ViewListingsIndex = "listings/index"
	ViewListingsNew   = "listings/new"
	ViewListingsShow  = "listings/show"
	ViewListingsEdit  = "listings/edit"
	ViewUsersSignup   = "users/signup"
	ViewUsersLogin    = "users/login"
	ViewError         = "error"
)

// DefaultErrorMessage is shown for unexpected failures.
const DefaultErrorMessage = "Something went wrong"

// CurrentUser is the logged-in user as exposed to views.
type CurrentUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Page is everything a view needs.
type Page struct {
	View        string                       `json:"view"`
	Flash       map[model.FlashKind][]string `json:"flash,omitempty"`
	CurrentUser *CurrentUser                 `json:"current_user,omitempty"`
	Data        any                          `json:"data,omitempty"`
}

// ErrorData is the payload of the error view.
type ErrorData struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Renderer writes a page with the given status.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page Page) error
}

// JSONRenderer writes pages as JSON documents.
type JSONRenderer struct{}

// Render implements Renderer.
func (JSONRenderer) Render(w http.ResponseWriter, r *http.Request, status int, page Page) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(page)
}

// Responder builds pages from the request session and hands them to a Renderer.
type Responder struct {
	renderer Renderer
	logger   *slog.Logger
}

// NewResponder creates a Responder. A nil renderer defaults to JSON.
func NewResponder(renderer Renderer, logger *slog.Logger) *Responder {
	if renderer == nil {
		renderer = JSONRenderer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{renderer: renderer, logger: logger}
}

// Page renders view with data. Pending flashes are consumed.
func (p *Responder) Page(w http.ResponseWriter, r *http.Request, status int, view string, data any) {
	page := Page{View: view, Data: data}

	if sess := auth.SessionFromContext(r.Context()); sess != nil {
		page.Flash = sess.PopFlashes()
		if sess.IsAuthenticated() {
			page.CurrentUser = &CurrentUser{ID: sess.UserID, Username: sess.Username}
		}
	}

	if err := p.renderer.Render(w, r, status, page); err != nil {
		p.logger.Error("render failed",
			slog.String("view", view),
			slog.String("error", err.Error()),
		)
	}
}

// Error renders the error view.
func (p *Responder) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	if message == "" {
		message = DefaultErrorMessage
	}
	p.Page(w, r, status, ViewError, ErrorData{Status: status, Message: message})
}

// Redirect queues a flash message and redirects. Non-GET requests get 303
// so the browser follows with a GET.
func Redirect(w http.ResponseWriter, r *http.Request, kind model.FlashKind, message, location string) {
	if message != "" {
		if sess := auth.SessionFromContext(r.Context()); sess != nil {
			sess.AddFlash(kind, message)
		}
	}
	http.Redirect(w, r, location, RedirectStatus(r))
}

// RedirectStatus returns 302 for safe methods and 303 otherwise.
func RedirectStatus(r *http.Request) int {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
