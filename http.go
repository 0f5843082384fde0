package tasks

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-tasks/middleware/tokenware"
)

// Middleware is the transport-facing surface of the access guard
type Middleware interface {
	ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc
}

// RouteAuthenticator wires the authenticator into HTTP middleware and
// exposes JSON error handling for the API surface.
type RouteAuthenticator struct {
	auth         *Auther
	cfg          Config
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther *Auther, cfg Config) (*RouteAuthenticator, error) {
	a := &RouteAuthenticator{
		cfg:    cfg,
		auth:   auther,
		Logger: defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

func (a *RouteAuthenticator) WithLogger(logger Logger) *RouteAuthenticator {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// ProtectedRoute returns the access guard middleware. It validates the
// bearer token, stores the claims under the configured context key, and
// binds the acting user id to the request context for downstream
// handlers and repositories.
func (a *RouteAuthenticator) ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	return tokenware.New(tokenware.Config{
		ErrorHandler:   errorHandler,
		TokenValidator: validatorAdapter{ts: a.auth.TokenService()},
		AuthScheme:     cfg.GetAuthScheme(),
		ContextKey:     cfg.GetContextKey(),
		TokenLookup:    cfg.GetTokenLookup(),
		ContextEnricher: func(c context.Context, claims tokenware.AuthClaims) context.Context {
			c = WithActingUser(c, claims.UserID())
			if ac, ok := claims.(AuthClaims); ok {
				c = WithClaimsContext(c, ac)
			}
			return c
		},
	})
}

// MakeAPIAuthErrorHandler classifies guard failures into a JSON 401
// payload. With optional set, the request proceeds unauthenticated.
func (a *RouteAuthenticator) MakeAPIAuthErrorHandler(optional bool) func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("Optional auth failed, proceeding", "error", richErr.Message)
			return ctx.Next()
		}

		return ctx.JSON(router.StatusUnauthorized, map[string]string{
			"error":     richErr.Message,
			"text_code": richErr.TextCode,
		})
	}
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Middleware error handler",
		"error", richErr.Message,
		"category", richErr.Category,
	)

	return WriteJSONError(c, richErr)
}

// WriteJSONError renders a structured error as an API response. Internal
// failures keep their details out of the payload; the category decides
// the status code when no explicit code was set.
func WriteJSONError(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := statusFromError(richErr)
	message := richErr.Message
	if status >= router.StatusInternalServerError {
		message = "internal server error"
	}

	payload := map[string]any{
		"error": message,
	}
	if richErr.TextCode != "" {
		payload["text_code"] = richErr.TextCode
	}
	if richErr.Category == errors.CategoryValidation && len(richErr.Metadata) > 0 {
		payload["validation"] = richErr.Metadata
	}

	return c.JSON(status, payload)
}

func statusFromError(richErr *errors.Error) int {
	if richErr.Code > 0 {
		return int(richErr.Code)
	}

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return router.StatusUnauthorized
	case errors.CategoryValidation, errors.CategoryBadInput:
		return router.StatusBadRequest
	case errors.CategoryConflict:
		return router.StatusConflict
	case errors.CategoryNotFound:
		return router.StatusNotFound
	default:
		return router.StatusInternalServerError
	}
}

type validatorAdapter struct {
	ts TokenService
}

func (v validatorAdapter) Validate(tokenString string) (tokenware.AuthClaims, error) {
	claims, err := v.ts.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
