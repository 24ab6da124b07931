package auth

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/model"
	"spendtrack/internal/repository"
)

var errAccountInactive = errors.New("account is not active")

// guardError wraps an unexpected failure inside the guard (such as a database
// outage) so the error handler can tell it apart from token extraction
// failures and answer 500 instead of 401.
type guardError struct {
	err error
}

func (e *guardError) Error() string { return e.err.Error() }
func (e *guardError) Unwrap() error { return e.err }

// Middleware returns the bearer-token guard applied to protected routes. It
// validates the access token, resolves the subject to a user, and stores the
// user in the request context. Every validity failure collapses to the same
// 401 response; the specific reason is only logged.
func Middleware(tokens *TokenService, users repository.UserRepository) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, err := tokens.Validate(tokenString, KindAccess)
			if err != nil {
				return nil, err
			}
			userID, err := claims.UserID()
			if err != nil {
				return nil, err
			}
			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, err
				}
				return nil, &guardError{err}
			}
			if !user.Active {
				return nil, errAccountInactive
			}
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var tokenErr *TokenError
			var internalErr *guardError
			switch {
			case errors.As(err, &tokenErr):
				c.Logger().Debugf("rejected access token: %v", tokenErr)
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.Logger().Debug("access token subject no longer exists")
			case errors.Is(err, errAccountInactive):
				c.Logger().Debug("access token subject is inactive")
			case errors.As(err, &internalErr):
				c.Logger().Errorf("authorization guard: %v", internalErr)
				return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
					Error: "internal server error",
					Code:  "INTERNAL_ERROR",
				})
			default:
				// Token extraction never reached the parser: no header, or a
				// header without the bearer scheme.
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Error: "missing or malformed authorization header",
					Code:  "MISSING_TOKEN",
				})
			}

			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "invalid or expired token",
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

// CurrentUser returns the user resolved by the guard for this request.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get("user").(*model.User)
	return user, ok
}
