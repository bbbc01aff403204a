package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// optionalJWT runs the JWT middleware only when credentials are presented,
// so public endpoints can still resolve claims for logged-in callers.
func optionalJWT(jwt echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		authed := jwt(next)
		return func(ctx echo.Context) error {
			if ctx.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(ctx)
			}
			return authed(ctx)
		}
	}
}

// deviceID resolves the caller's device identifier: authenticated requests
// carry it in their token claims, anonymous ones in the X-Device-ID header.
func deviceID(ctx echo.Context) string {
	if claims, err := getContextClaims(ctx); err == nil && claims.DeviceID != "" {
		return claims.DeviceID
	}
	return ctx.Request().Header.Get("X-Device-ID")
}

// favoritesOwner keys the favorites set: the user id when authenticated,
// the device id otherwise.
func favoritesOwner(ctx echo.Context) string {
	if claims, err := getContextClaims(ctx); err == nil && claims.Subject != "" {
		return claims.Subject
	}
	return ctx.Request().Header.Get("X-Device-ID")
}
