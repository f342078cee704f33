package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/wanderlust/wanderlust/internal/auth"
	"github.com/wanderlust/wanderlust/internal/cache"
	"github.com/wanderlust/wanderlust/internal/model"
)

// SessionStore persists sessions by id.
type SessionStore interface {
	GetSession(ctx context.Context, id string) (*model.Session, error)
	SaveSession(ctx context.Context, sess *model.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, id string) error
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Store      SessionStore
	CookieName string
	TTL        time.Duration
	Secure     bool
	Logger     *slog.Logger
}

// Sessions loads the session named by the cookie, or starts an empty one,
// and puts it in the request context. Changes are written back just before
// the response header is sent. A new session is only stored once something
// was put in it, and its id is rotated whenever the session asks for it
// (login, logout).
func Sessions(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := loadSession(r, cfg)

			sw := &sessionWriter{ResponseWriter: w, r: r, sess: sess, cfg: cfg}
			next.ServeHTTP(sw, r.WithContext(auth.ContextWithSession(r.Context(), sess)))
			sw.commit()
		})
	}
}

func loadSession(r *http.Request, cfg SessionConfig) *model.Session {
	cookie, err := r.Cookie(cfg.CookieName)
	if err != nil || auth.ValidateSessionID(cookie.Value) != nil {
		return model.NewSession()
	}

	sess, err := cfg.Store.GetSession(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, cache.ErrSessionNotFound) {
			cfg.Logger.Error("session load failed",
				slog.String("request_id", GetRequestID(r.Context())),
				slog.String("error", err.Error()),
			)
		}
		return model.NewSession()
	}
	return sess
}

// sessionWriter saves the session before the first byte of the response.
type sessionWriter struct {
	http.ResponseWriter
	r         *http.Request
	sess      *model.Session
	cfg       SessionConfig
	committed bool
}

func (sw *sessionWriter) WriteHeader(code int) {
	sw.commit()
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *sessionWriter) Write(b []byte) (int, error) {
	sw.commit()
	return sw.ResponseWriter.Write(b)
}

func (sw *sessionWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

func (sw *sessionWriter) commit() {
	if sw.committed {
		return
	}
	sw.committed = true

	sess := sw.sess
	if !sess.IsDirty() && !sess.NeedsRenewal() {
		return
	}

	ctx := sw.r.Context()
	oldID := sess.ID
	rotate := oldID == "" || sess.NeedsRenewal()

	if rotate {
		id, err := auth.GenerateSessionID()
		if err != nil {
			sw.logError("session id generation failed", err)
			return
		}
		sess.ID = id
	}

	err := sw.cfg.Store.SaveSession(ctx, sess, sw.cfg.TTL)
	if errors.Is(err, cache.ErrSessionExpired) {
		// Past its fixed lifetime: carry the state over into a fresh session.
		sess.CreatedAt = time.Now().UTC()
		if sess.ID, err = auth.GenerateSessionID(); err == nil {
			err = sw.cfg.Store.SaveSession(ctx, sess, sw.cfg.TTL)
		}
		rotate = true
	}
	if err != nil {
		sw.logError("session save failed", err)
		return
	}
	sess.MarkSaved()

	if rotate {
		if oldID != "" {
			if err := sw.cfg.Store.DeleteSession(ctx, oldID); err != nil {
				sw.logError("old session delete failed", err)
			}
		}
		http.SetCookie(sw.ResponseWriter, sw.cookie(sess))
	}
}

func (sw *sessionWriter) cookie(sess *model.Session) *http.Cookie {
	expires := sess.CreatedAt.Add(sw.cfg.TTL)
	return &http.Cookie{
		Name:     sw.cfg.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   sw.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (sw *sessionWriter) logError(msg string, err error) {
	sw.cfg.Logger.Error(msg,
		slog.String("request_id", GetRequestID(sw.r.Context())),
		slog.String("error", err.Error()),
	)
}
