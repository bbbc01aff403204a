package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/lead"
)

type leadApi struct {
	svc lead.Service
}

func registerLeadAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc lead.Service) {
	api := leadApi{svc: svc}

	lg := g.Group("/leads")

	// un-authed endpoint; marketing forms post here
	lg.POST("", api.capture)

	// admin endpoints
	admin := adminMiddleware()
	lg.GET("", api.query, jwt, admin)
	lg.GET("/:id", api.retrieve, jwt, admin)
	lg.DELETE("", api.destroyMultiple, jwt, admin)
}

// Handlers

func (api *leadApi) capture(ctx echo.Context) error {
	var data lead.NewLead
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLead")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	l, err := api.svc.Capture(data)
	if err != nil {
		return errors.Wrap(err, "capturing lead")
	}
	return ctx.JSON(http.StatusCreated, l)
}

func (api *leadApi) query(ctx echo.Context) error {
	leads, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying leads")
	}
	if leads == nil {
		leads = []lead.Lead{}
	}
	return ctx.JSON(http.StatusOK, leads)
}

func (api *leadApi) retrieve(ctx echo.Context) error {
	l, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding lead by ID")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *leadApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting leads")
	}
	return ctx.NoContent(http.StatusNoContent)
}
