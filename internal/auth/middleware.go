package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aiwlulu/BookEasy/internal/apperror"
)

// Context keys for storing the authenticated principal in the Echo
// context. Other packages access them via the exported getters below.
const (
	contextKeyPrincipal = "auth_principal"
	contextKeyAccount   = "auth_account"
)

// RequireAuth returns middleware that validates the session cookie and
// injects the authenticated principal into the request context. A missing
// cookie yields 401, a forged or stale token 403, and a deleted account
// 404 -- all before the wrapped handler runs.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := verifyRequest(c, service); err != nil {
				return err
			}

			return next(c)
		}
	}
}

// RequireAdmin returns middleware gating privileged operations. It
// performs the same session verification as RequireAuth and additionally
// rejects principals whose role flag is not admin. It is a pure gate: on
// rejection the wrapped handler never executes.
func RequireAdmin(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, err := verifyRequest(c, service)
			if err != nil {
				return err
			}

			if !account.IsAdmin {
				return apperror.NewForbidden("admin access required")
			}

			return next(c)
		}
	}
}

// verifyRequest validates the request's session cookie and stores the
// principal and account in the Echo context. A token that fails
// verification also gets its stale cookie cleared so the browser stops
// resending it.
func verifyRequest(c echo.Context, service AuthService) (*Account, error) {
	token := getSessionToken(c)

	account, err := service.VerifySession(c.Request().Context(), token)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusForbidden && token != "" {
			c.SetCookie(&http.Cookie{
				Name:     sessionCookieName,
				Value:    "",
				Path:     "/",
				HttpOnly: true,
				MaxAge:   -1,
			})
		}
		return nil, err
	}

	c.Set(contextKeyPrincipal, &Principal{AccountID: account.ID, IsAdmin: account.IsAdmin})
	c.Set(contextKeyAccount, account)

	return account, nil
}

// --- Exported getters for other packages ---

// GetPrincipal retrieves the authenticated principal from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetPrincipal(c echo.Context) *Principal {
	principal, ok := c.Get(contextKeyPrincipal).(*Principal)
	if !ok {
		return nil
	}
	return principal
}

// GetAccount retrieves the authenticated account from the Echo context.
// Returns nil if the request is not authenticated.
func GetAccount(c echo.Context) *Account {
	account, ok := c.Get(contextKeyAccount).(*Account)
	if !ok {
		return nil
	}
	return account
}
