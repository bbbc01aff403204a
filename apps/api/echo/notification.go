package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/notification"
)

type notificationApi struct {
	hub *notification.Hub
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, hub *notification.Hub) {
	api := notificationApi{hub: hub}

	ng := g.Group("/notifications", jwt)
	ng.GET("", api.query)
	ng.DELETE("/:id", api.dismiss)
	ng.DELETE("", api.clear)
}

// managers resolves the caller's notification queues: everyone gets their
// own, admins additionally get the shared admin queue.
func (api *notificationApi) managers(ctx echo.Context) ([]*notification.Manager, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context claims")
	}
	mgrs := []*notification.Manager{api.hub.For(claims.Subject)}
	if claims.IsAdmin {
		mgrs = append(mgrs, api.hub.For(notification.AdminOwner))
	}
	return mgrs, nil
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	mgrs, err := api.managers(ctx)
	if err != nil {
		return err
	}
	notifs := []notification.Notification{}
	for _, m := range mgrs {
		notifs = append(notifs, m.All()...)
	}
	return ctx.JSON(http.StatusOK, notifs)
}

func (api *notificationApi) dismiss(ctx echo.Context) error {
	mgrs, err := api.managers(ctx)
	if err != nil {
		return err
	}
	for _, m := range mgrs {
		m.Remove(ctx.Param("id"))
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) clear(ctx echo.Context) error {
	mgrs, err := api.managers(ctx)
	if err != nil {
		return err
	}
	for _, m := range mgrs {
		m.Clear()
	}
	return ctx.NoContent(http.StatusNoContent)
}
