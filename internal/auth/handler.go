package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aiwlulu/BookEasy/internal/apperror"
)

// sessionCookieName is the HTTP cookie used to carry the session token.
const sessionCookieName = "bookeasy_session"

// Handler handles HTTP requests for authentication. Handlers are thin:
// they bind the request, call the service, and render the JSON response.
// No business logic lives here.
type Handler struct {
	service   AuthService
	cookieTTL time.Duration
}

// NewHandler creates a new auth handler. cookieTTL bounds the session
// cookie lifetime and should match the token TTL.
func NewHandler(service AuthService, cookieTTL time.Duration) *Handler {
	return &Handler{service: service, cookieTTL: cookieTTL}
}

// loginResponse is the success payload for POST /auth/login.
type loginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// Register creates a new account (POST /auth/register).
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if msg := validateRegisterRequest(&req); msg != "" {
		return apperror.NewBadRequest(msg)
	}

	account, err := h.service.Register(c.Request().Context(), RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	// Account marshals without the password hash.
	return c.JSON(http.StatusOK, account)
}

// Login verifies credentials and sets the session cookie (POST /auth/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if req.Account == "" || req.Password == "" {
		return apperror.NewBadRequest("account and password are required")
	}

	token, account, err := h.service.Login(c.Request().Context(), LoginInput{
		Account:  req.Account,
		Password: req.Password,
	})
	if err != nil {
		// No cookie is set on any failure path.
		return err
	}

	h.setSessionCookie(c, token)

	return c.JSON(http.StatusOK, loginResponse{
		Message:  account.Username + " logged in successfully",
		Username: account.Username,
	})
}

// Logout clears the session cookie (POST /auth/logout). Always succeeds,
// even without an existing session -- the token itself is stateless, so
// dropping the cookie is the whole operation.
func (h *Handler) Logout(c echo.Context) error {
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// Verify validates the session cookie and returns the account it names
// (GET /auth/verify).
func (h *Handler) Verify(c echo.Context) error {
	account, err := h.service.VerifySession(c.Request().Context(), getSessionToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// --- Cookie helpers ---

// getSessionToken reads the session token from the cookie. Empty string
// means no cookie was sent.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie on the response. The cookie is
// HttpOnly (JS can't read it), Secure if behind TLS, and SameSite=Lax.
func (h *Handler) setSessionCookie(c echo.Context, token string) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cookieTTL.Seconds()),
	})
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func (h *Handler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// --- Validation helpers ---

// validateRegisterRequest performs basic server-side validation on the
// registration payload. Returns an error message or empty string.
func validateRegisterRequest(req *RegisterRequest) string {
	if req.Username == "" {
		return "username is required"
	}
	if len(req.Username) < 3 {
		return "username must be at least 3 characters"
	}
	if len(req.Username) > 30 {
		return "username must be at most 30 characters"
	}
	if req.Email == "" {
		return "email is required"
	}
	if !strings.Contains(req.Email, "@") || len(req.Email) > 255 {
		return "email is not valid"
	}
	if req.Password == "" {
		return "password is required"
	}
	if len(req.Password) < 8 {
		return "password must be at least 8 characters"
	}
	if len(req.Password) > 128 {
		return "password must be at most 128 characters"
	}
	return ""
}
