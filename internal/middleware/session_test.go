package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wanderlust/wanderlust/internal/auth"
	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/testutil"
)

const testCookieName = "wanderlust_session"

func newSessionMiddleware(store SessionStore) func(http.Handler) http.Handler {
	return Sessions(SessionConfig{
		Store:      store,
		CookieName: testCookieName,
		TTL:        7 * 24 * time.Hour,
		Logger:     testutil.DiscardLogger(),
	})
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	return nil
}

func TestSessions_UntouchedSessionNotStored(t *testing.T) {
	t.Parallel()
	store := testutil.NewMemorySessions()

	handler := newSessionMiddleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.SessionFromContext(r.Context()) == nil {
			t.Error("no session in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings", nil))

	if c := sessionCookie(rec); c != nil {
		t.Errorf("cookie set for untouched session: %v", c)
	}
	if store.Len() != 0 {
		t.Errorf("store holds %d sessions, want 0", store.Len())
	}
}

func TestSessions_FlashSurvivesRedirect(t *testing.T) {
	t.Parallel()
	store := testutil.NewMemorySessions()
	mw := newSessionMiddleware(store)

	redirect := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.SessionFromContext(r.Context()).AddFlash(model.FlashError, "Listing not found")
		http.Redirect(w, r, "/listings", http.StatusFound)
	}))

	rec := httptest.NewRecorder()
	redirect.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/missing", nil))

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("no session cookie on redirect")
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode || cookie.Path != "/" {
		t.Errorf("cookie attributes = %+v", cookie)
	}
	if err := auth.ValidateSessionID(cookie.Value); err != nil {
		t.Errorf("cookie value is not a session id: %v", err)
	}

	var flashes map[model.FlashKind][]string
	show := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flashes = auth.SessionFromContext(r.Context()).PopFlashes()
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/listings", nil)
	req.AddCookie(cookie)
	show.ServeHTTP(httptest.NewRecorder(), req)

	if got := flashes[model.FlashError]; len(got) != 1 || got[0] != "Listing not found" {
		t.Errorf("flashes = %v", flashes)
	}

	stored, err := store.GetSession(req.Context(), cookie.Value)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if len(stored.Flash) != 0 {
		t.Errorf("flash not consumed in store: %v", stored.Flash)
	}
}

func TestSessions_LoginRotatesID(t *testing.T) {
	t.Parallel()
	store := testutil.NewMemorySessions()

	oldID, err := auth.GenerateSessionID()
	if err != nil {
		t.Fatalf("GenerateSessionID: %v", err)
	}
	sess := model.NewSession()
	sess.ReturnTo = "/listings/abc/edit"
	store.Put(oldID, sess)

	handler := newSessionMiddleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := auth.SessionFromContext(r.Context())
		if s.ReturnTo != "/listings/abc/edit" {
			t.Errorf("ReturnTo = %q, loaded session lost state", s.ReturnTo)
		}
		s.Login(&model.User{ID: "u1", Username: "alice"})
		http.Redirect(w, r, "/listings", http.StatusSeeOther)
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: oldID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("no cookie after login")
	}
	if cookie.Value == oldID {
		t.Error("session id was not rotated")
	}
	if _, err := store.GetSession(req.Context(), oldID); err == nil {
		t.Error("old session still stored")
	}

	rotated, err := store.GetSession(req.Context(), cookie.Value)
	if err != nil {
		t.Fatalf("GetSession(new): %v", err)
	}
	if rotated.UserID != "u1" || rotated.ReturnTo != "/listings/abc/edit" {
		t.Errorf("rotated session = %+v", rotated)
	}
	if store.Len() != 1 {
		t.Errorf("store holds %d sessions, want 1", store.Len())
	}
}

func TestSessions_UnknownOrMalformedCookie(t *testing.T) {
	t.Parallel()

	unknownID, err := auth.GenerateSessionID()
	if err != nil {
		t.Fatalf("GenerateSessionID: %v", err)
	}

	for _, value := range []string{"not-a-session-id", unknownID} {
		store := testutil.NewMemorySessions()
		handler := newSessionMiddleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := auth.SessionFromContext(r.Context())
			if sess.ID != "" || sess.IsAuthenticated() {
				t.Errorf("cookie %q produced session %+v, want fresh", value, sess)
			}
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/listings", nil)
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: value})
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestSessions_UnchangedSessionNotRewritten(t *testing.T) {
	t.Parallel()
	store := testutil.NewMemorySessions()

	id, err := auth.GenerateSessionID()
	if err != nil {
		t.Fatalf("GenerateSessionID: %v", err)
	}
	sess := model.NewSession()
	sess.Login(&model.User{ID: "u1", Username: "alice"})
	store.Put(id, sess)

	handler := newSessionMiddleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.SessionFromContext(r.Context()).IsAuthenticated() {
			t.Error("stored login not restored")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/listings", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: id})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if c := sessionCookie(rec); c != nil {
		t.Errorf("cookie reissued for unchanged session: %v", c)
	}
}
