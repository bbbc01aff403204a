package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/platform"
)

type platformApi struct {
	svc platform.Service
}

func registerPlatformAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc platform.Service) {
	api := platformApi{svc: svc}

	// public endpoints; the frontend bootstraps itself from these
	pg := g.Group("/areas")
	pg.GET("", api.queryAreas)
	pg.GET("/:id", api.retrieveArea)

	cg := g.Group("/config")
	cg.GET("", api.general)
	cg.GET("/loyalty", api.loyalty)
	cg.GET("/whatsapp", api.whatsApp)
	cg.GET("/status", api.status)

	// admin endpoints
	admin := adminMiddleware()
	pg.GET("/all", api.queryAllAreas, jwt, admin)
	pg.POST("", api.createArea, jwt, admin)
	pg.DELETE("", api.destroyAreas, jwt, admin)
	pg.PUT("/:id", api.updateArea, jwt, admin)

	cg.PUT("", api.setGeneral, jwt, admin)
	cg.PUT("/loyalty", api.setLoyalty, jwt, admin)
	cg.PUT("/whatsapp", api.setWhatsApp, jwt, admin)
}

// Handlers

func (api *platformApi) queryAreas(ctx echo.Context) error {
	areas, err := api.svc.ActiveAreas()
	if err != nil {
		return errors.Wrap(err, "querying areas")
	}
	if areas == nil {
		areas = []platform.Area{}
	}
	return ctx.JSON(http.StatusOK, areas)
}

// queryAllAreas includes inactive areas; admins only.
func (api *platformApi) queryAllAreas(ctx echo.Context) error {
	areas, err := api.svc.QueryAllAreas()
	if err != nil {
		return errors.Wrap(err, "querying areas")
	}
	if areas == nil {
		areas = []platform.Area{}
	}
	return ctx.JSON(http.StatusOK, areas)
}

// retrieveArea accepts an area slug or, failing that, its id.
func (api *platformApi) retrieveArea(ctx echo.Context) error {
	ref := ctx.Param("id")
	area, err := api.svc.GetAreaBySlug(ref)
	if errors.Cause(err) == platform.ErrNotFound {
		area, err = api.svc.GetAreaByID(ref)
	}
	if err != nil {
		return errors.Wrap(err, "finding area")
	}
	return ctx.JSON(http.StatusOK, area)
}

func (api *platformApi) createArea(ctx echo.Context) error {
	var data platform.NewArea
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewArea")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	area, err := api.svc.CreateArea(data)
	if err != nil {
		return errors.Wrap(err, "creating area")
	}
	return ctx.JSON(http.StatusCreated, area)
}

func (api *platformApi) updateArea(ctx echo.Context) error {
	orig, err := api.svc.GetAreaByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding area by ID")
	}

	var data platform.UpdateArea
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateArea")
	}
	if err := data.Validate(orig, api.svc); err != nil {
		return err
	}

	area, err := api.svc.UpdateArea(orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating area")
	}
	return ctx.JSON(http.StatusOK, area)
}

func (api *platformApi) destroyAreas(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.DeleteAreas(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting areas")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *platformApi) general(ctx echo.Context) error {
	gc, err := api.svc.General()
	if err != nil {
		return errors.Wrap(err, "getting general config")
	}
	return ctx.JSON(http.StatusOK, gc)
}

func (api *platformApi) setGeneral(ctx echo.Context) error {
	var data platform.GeneralConfig
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GeneralConfig")
	}
	if err := api.svc.SetGeneral(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, data)
}

func (api *platformApi) loyalty(ctx echo.Context) error {
	lc, err := api.svc.Loyalty()
	if err != nil {
		return errors.Wrap(err, "getting loyalty config")
	}
	return ctx.JSON(http.StatusOK, lc)
}

func (api *platformApi) setLoyalty(ctx echo.Context) error {
	var data platform.LoyaltyConfig
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoyaltyConfig")
	}
	if err := api.svc.SetLoyalty(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, data)
}

func (api *platformApi) whatsApp(ctx echo.Context) error {
	wc, err := api.svc.WhatsApp()
	if err != nil {
		return errors.Wrap(err, "getting whatsapp config")
	}
	return ctx.JSON(http.StatusOK, wc)
}

func (api *platformApi) setWhatsApp(ctx echo.Context) error {
	var data platform.WhatsAppConfig
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to WhatsAppConfig")
	}
	if err := api.svc.SetWhatsApp(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, data)
}

func (api *platformApi) status(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, StatusResponse{Complete: api.svc.ConfigurationComplete()})
}

type StatusResponse struct {
	Complete bool `json:"complete"`
}
