package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/review"
)

type reviewApi struct {
	svc review.Service
}

func registerReviewAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc review.Service) {
	api := reviewApi{svc: svc}

	rg := g.Group("/reviews")

	// un-authed endpoints; submissions await moderation
	rg.POST("", api.create)
	rg.GET("/course/:id", api.byCourse)

	// admin endpoints
	admin := adminMiddleware()
	rg.GET("", api.query, jwt, admin)
	rg.POST("/:id/approve", api.approve, jwt, admin)
	rg.DELETE("", api.destroyMultiple, jwt, admin)
}

// Handlers

func (api *reviewApi) create(ctx echo.Context) error {
	var data review.NewReview
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReview")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	r, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating review")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *reviewApi) byCourse(ctx echo.Context) error {
	reviews, err := api.svc.ByCourse(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying course reviews")
	}
	if reviews == nil {
		reviews = []review.Review{}
	}
	return ctx.JSON(http.StatusOK, reviews)
}

func (api *reviewApi) query(ctx echo.Context) error {
	reviews, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying reviews")
	}
	if reviews == nil {
		reviews = []review.Review{}
	}
	return ctx.JSON(http.StatusOK, reviews)
}

func (api *reviewApi) approve(ctx echo.Context) error {
	r, err := api.svc.Approve(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "approving review")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *reviewApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting reviews")
	}
	return ctx.NoContent(http.StatusNoContent)
}
