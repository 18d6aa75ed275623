package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homenotes/homenotes/internal/api/middleware"
	"github.com/homenotes/homenotes/internal/core/domain"
	"github.com/homenotes/homenotes/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (*ports.SessionResult, error)
	logoutFn   func(ctx context.Context, rawToken string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.SessionResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Logout(ctx context.Context, rawToken string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, rawToken)
	}
	return nil
}

func newFormContext(t *testing.T, method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okSession(user *domain.User) *ports.SessionResult {
	return &ports.SessionResult{
		Token:     "token123",
		TTL:       time.Hour,
		ExpiresAt: time.Now().Add(time.Hour),
		User:      user,
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, in ports.LoginInput) (*ports.SessionResult, error) {
			if in.Name != "alice" || in.Password != "pw1234" || in.Remember {
				t.Fatalf("unexpected input: %+v", in)
			}
			return okSession(&domain.User{ID: 1, Name: "alice"}), nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newFormContext(t, http.MethodPost, "/login",
		url.Values{"username": {"alice"}, "passwd": {"pw1234"}})
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}

	cookie := sessionCookie(t, rec)
	if cookie.Value != "token123" {
		t.Fatalf("unexpected cookie value %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if cookie.MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("cookie MaxAge should match the session TTL, got %d", cookie.MaxAge)
	}
}

func TestAuthHandler_Login_RememberMe(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, in ports.LoginInput) (*ports.SessionResult, error) {
			if !in.Remember {
				t.Fatalf("remember_me checkbox not bound")
			}
			res := okSession(&domain.User{ID: 1, Name: "alice"})
			res.TTL = 24 * time.Hour
			return res, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newFormContext(t, http.MethodPost, "/login",
		url.Values{"username": {"alice"}, "passwd": {"pw1234"}, "remember_me": {"true"}})
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if cookie := sessionCookie(t, rec); cookie.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("expected 24h cookie, got MaxAge %d", cookie.MaxAge)
	}
}

func TestAuthHandler_Login_NextParam(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, _ ports.LoginInput) (*ports.SessionResult, error) {
			return okSession(&domain.User{ID: 1, Name: "alice"}), nil
		},
	}
	h := NewAuthHandler(stub)

	cases := []struct {
		next string
		want string
	}{
		{"/index", "/index"},
		{"http://evil.example/x", "/"},
		{"https://evil.example", "/"},
		{"//evil.example/x", "/"},
		{`/\evil.example`, "/"},
		{"", "/"},
		{"relative/path", "/"},
	}
	for _, tc := range cases {
		c, rec := newFormContext(t, http.MethodPost, "/login?next="+url.QueryEscape(tc.next),
			url.Values{"username": {"alice"}, "passwd": {"pw1234"}})
		if err := h.Login(c); err != nil {
			t.Fatalf("next %q: handler error: %v", tc.next, err)
		}
		if loc := rec.Header().Get(echo.HeaderLocation); loc != tc.want {
			t.Fatalf("next %q: expected redirect %q, got %q", tc.next, tc.want, loc)
		}
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, _ ports.LoginInput) (*ports.SessionResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newFormContext(t, http.MethodPost, "/login",
		url.Values{"username": {"alice"}, "passwd": {"wrong1"}})
	_ = h.Login(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "invalid username or password" {
		t.Fatalf("expected the generic message, got %q", resp["error"])
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie may be set on failure")
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, _ ports.LoginInput) (*ports.SessionResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newFormContext(t, http.MethodPost, "/login", url.Values{"username": {"alice"}})
	_ = h.Login(c)

	// Same generic answer as wrong credentials.
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Name != "alice" || in.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 1, Name: in.Name, Email: in.Email}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newFormContext(t, http.MethodPost, "/register", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"passwd":   {"pw1234"},
		"passwd2":  {"pw1234"},
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
	// No auto-login after registration.
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("registration must not set a session cookie")
	}
}

func TestAuthHandler_Register_FieldErrors(t *testing.T) {
	cases := []struct {
		name      string
		form      url.Values
		svcErr    error
		wantField string
	}{
		{
			name: "duplicate name",
			form: url.Values{"username": {"alice"}, "email": {"b@example.com"}, "passwd": {"pw1234"}, "passwd2": {"pw1234"}},
			svcErr: domain.ErrNameTaken, wantField: "username",
		},
		{
			name: "duplicate email",
			form: url.Values{"username": {"bob"}, "email": {"alice@example.com"}, "passwd": {"pw1234"}, "passwd2": {"pw1234"}},
			svcErr: domain.ErrEmailTaken, wantField: "email",
		},
		{
			name:      "password mismatch",
			form:      url.Values{"username": {"bob"}, "email": {"b@example.com"}, "passwd": {"pw1234"}, "passwd2": {"pw1235"}},
			wantField: "passwd2",
		},
		{
			name:      "bad email",
			form:      url.Values{"username": {"bob"}, "email": {"not-an-email"}, "passwd": {"pw1234"}, "passwd2": {"pw1234"}},
			wantField: "email",
		},
		{
			name:      "missing username",
			form:      url.Values{"email": {"b@example.com"}, "passwd": {"pw1234"}, "passwd2": {"pw1234"}},
			wantField: "username",
		},
	}

	for _, tc := range cases {
		stub := &stubAuthService{
			registerFn: func(_ context.Context, _ ports.RegisterInput) (*domain.User, error) {
				if tc.svcErr == nil {
					t.Fatalf("%s: service must not be called", tc.name)
				}
				return nil, tc.svcErr
			},
		}
		h := NewAuthHandler(stub)

		c, rec := newFormContext(t, http.MethodPost, "/register", tc.form)
		_ = h.Register(c)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", tc.name, rec.Code)
		}
		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: invalid json: %v", tc.name, err)
		}
		if _, ok := resp.Errors[tc.wantField]; !ok {
			t.Fatalf("%s: expected an error for field %q, got %v", tc.name, tc.wantField, resp.Errors)
		}
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var revoked string
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, rawToken string) error {
			revoked = rawToken
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newFormContext(t, http.MethodGet, "/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "token123"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked != "token123" {
		t.Fatalf("expected the cookie token to be revoked, got %q", revoked)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Fatalf("expected redirect home, got %q", loc)
	}

	cookie := sessionCookie(t, rec)
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("expected the session cookie to be cleared, got %+v", cookie)
	}
}

func TestAuthHandler_Logout_BearerToken(t *testing.T) {
	var revoked string
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, rawToken string) error {
			revoked = rawToken
			return nil
		},
	}
	h := NewAuthHandler(stub)

	// Non-browser clients carry the token in the Authorization header; their
	// sessions must be revoked just like cookie sessions.
	c, rec := newFormContext(t, http.MethodGet, "/logout", nil)
	c.Request().Header.Set("Authorization", "Bearer token456")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked != "token456" {
		t.Fatalf("expected the bearer token to be revoked, got %q", revoked)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout_WithoutSession(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, _ string) error {
			t.Fatalf("service must not be called without a cookie")
			return nil
		},
	})

	c, rec := newFormContext(t, http.MethodGet, "/logout", nil)
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("logout is unconditional; expected 303, got %d", rec.Code)
	}
}

func TestSafeNextPath(t *testing.T) {
	cases := map[string]string{
		"":                      "/",
		"/index":                "/index",
		"/notes?page=2":         "/notes?page=2",
		"http://evil.example/x": "/",
		"https://evil.example":  "/",
		"//evil.example":        "/",
		`/\evil.example`:        "/",
		"evil.example":          "/",
		"javascript:alert(1)":   "/",
	}
	for next, want := range cases {
		if got := safeNextPath(next); got != want {
			t.Fatalf("safeNextPath(%q) = %q, want %q", next, got, want)
		}
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	t.Fatalf("session cookie not found")
	return nil
}
