package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/platform"
	"github.com/veta-academy/backend/core/session"
)

type sessionApi struct {
	svc         session.Service
	platformSvc platform.Service
}

func registerSessionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc session.Service, platformSvc platform.Service) {
	api := sessionApi{svc: svc, platformSvc: platformSvc}

	// the device id may come from a token's claims, so credentials are
	// honored when presented
	sg := g.Group("/session", optionalJWT(jwt))
	sg.GET("", api.current)
	sg.POST("/guest", api.startGuest)
	sg.POST("/logout", api.logout)
	sg.PUT("/preferences", api.setPreferences)
}

// Handlers

// current returns the device's session; devices showing up without an
// identifier are handed a fresh one along with an anonymous session.
func (api *sessionApi) current(ctx echo.Context) error {
	id := deviceID(ctx)
	if id == "" {
		id = session.NewDeviceID()
	}
	return ctx.JSON(http.StatusOK, api.svc.Current(id))
}

func (api *sessionApi) startGuest(ctx echo.Context) error {
	var data session.StartGuestRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StartGuestRequest")
	}
	if data.DeviceID == "" {
		data.DeviceID = deviceID(ctx)
	}
	if err := data.Validate(); err != nil {
		return err
	}

	// guests must pick an existing active area
	area, err := api.platformSvc.GetAreaBySlug(data.Area)
	if err != nil {
		return errors.Wrap(err, "finding area by slug")
	}
	if !area.IsActive {
		return errHttpNotFound
	}

	if data.DeviceID == "" {
		data.DeviceID = session.NewDeviceID()
	}
	sess, err := api.svc.StartGuest(area.Slug, data.DeviceID)
	if err != nil {
		return errors.Wrap(err, "starting guest session")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionApi) logout(ctx echo.Context) error {
	id := deviceID(ctx)
	if id == "" {
		return errHttpNotFound
	}
	sess, err := api.svc.Logout(id)
	if err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionApi) setPreferences(ctx echo.Context) error {
	var data PreferencesRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PreferencesRequest")
	}
	id := deviceID(ctx)
	if id == "" {
		return errHttpNotFound
	}
	sess, err := api.svc.SetPreferences(id, data.Preferences)
	if err != nil {
		return errors.Wrap(err, "setting preferences")
	}
	return ctx.JSON(http.StatusOK, sess)
}

type PreferencesRequest struct {
	Preferences map[string]string `json:"preferences"`
}
