package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homenotes/homenotes/internal/api/metrics"
	"github.com/homenotes/homenotes/internal/api/middleware"
	"github.com/homenotes/homenotes/internal/core/domain"
	"github.com/homenotes/homenotes/internal/core/ports"
)

// AuthHandler serves the login, logout and registration flows.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginForm answers GET /login. Rendering is a client concern; the payload
// just names the view so form clients know where they are.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"page": "login", "title": "Authentication"})
}

// Login authenticates a user and establishes a session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Accept       json
// @Param        username     formData  string  true   "Account name"
// @Param        passwd       formData  string  true   "Password"
// @Param        remember_me  formData  bool    false  "Extend the session to 24 hours"
// @Param        next         query     string  false  "Relative path to return to"
// @Success      303
// @Failure      401  {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		// Incomplete credentials get the same generic answer as wrong ones.
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: domain.ErrInvalidCredentials.Error()})
	}

	session, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Name:     req.Username,
		Password: req.Passwd,
		Remember: req.RememberMe,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: domain.ErrInvalidCredentials.Error()})
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	setSessionCookie(c, session.Token, session.TTL)
	return c.Redirect(http.StatusSeeOther, safeNextPath(c.QueryParam("next")))
}

// Logout ends the session regardless of its state and sends the caller home.
//
// @Summary      Log out
// @Tags         auth
// @Success      303
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if raw := middleware.TokenFromRequest(c); raw != "" {
		if err := h.authService.Logout(c.Request().Context(), raw); err != nil {
			return err
		}
		metrics.SessionsRevokedTotal.Inc()
	}
	clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

// RegisterForm answers GET /register.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"page": "register", "title": "Registration"})
}

// Register creates a new account. It never logs the new user in; on success
// the caller is sent to the login view.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Accept       json
// @Param        username  formData  string  true  "Account name"
// @Param        email     formData  string  true  "Email address"
// @Param        passwd    formData  string  true  "Password"
// @Param        passwd2   formData  string  true  "Password confirmation"
// @Success      303
// @Failure      422  {object}  fieldErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		var fields FieldErrors
		if errors.As(err, &fields) {
			metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
			return c.JSON(http.StatusUnprocessableEntity, fieldErrorResponse{Errors: fields})
		}
		return err
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:            req.Username,
		Email:           req.Email,
		Password:        req.Passwd,
		PasswordConfirm: req.Passwd2,
	})
	if err != nil {
		if fields, ok := registrationFieldErrors(err); ok {
			metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
			return c.JSON(http.StatusUnprocessableEntity, fieldErrorResponse{Errors: fields})
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusSeeOther, "/login")
}

// registrationFieldErrors maps recoverable registration errors onto the form
// field that caused them. Anything else is fatal for the request.
func registrationFieldErrors(err error) (FieldErrors, bool) {
	switch {
	case errors.Is(err, domain.ErrNameTaken):
		return FieldErrors{"username": err.Error()}, true
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrUserExists):
		return FieldErrors{"email": domain.ErrEmailTaken.Error()}, true
	case errors.Is(err, domain.ErrPasswordMismatch):
		return FieldErrors{"passwd2": err.Error()}, true
	case errors.Is(err, domain.ErrPasswordTooShort):
		return FieldErrors{"passwd": err.Error()}, true
	case errors.Is(err, domain.ErrMissingField):
		return FieldErrors{"username": err.Error()}, true
	}
	return nil, false
}

// safeNextPath validates a caller-supplied "next" destination. Only
// same-site relative paths pass: absolute URLs, scheme-relative ("//host")
// and backslash variants all fall back to the home view so login can never
// be used as an open redirect.
func safeNextPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return "/"
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return next
}

func setSessionCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
