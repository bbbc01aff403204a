package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/catalog"
)

type catalogApi struct {
	svc catalog.Service
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc catalog.Service) {
	api := catalogApi{svc: svc}

	cg := g.Group("/courses", optionalJWT(jwt))

	// un-authed endpoints; the catalog is public but favorites stick to the
	// account when a token is presented
	cg.GET("", api.query)
	cg.GET("/featured", api.featured)
	cg.GET("/popular", api.popular)
	cg.GET("/favorites", api.favorites)
	cg.POST("/:id/favorite", api.toggleFavorite)
	cg.GET("/:id", api.retrieve)

	// admin endpoints
	admin := adminMiddleware()
	cg.POST("", api.create, jwt, admin)
	cg.DELETE("", api.destroyMultiple, jwt, admin)
	cg.PUT("/:id", api.update, jwt, admin)
	cg.PUT("/featured", api.setFeatured, jwt, admin)
	cg.PUT("/popular", api.setPopular, jwt, admin)
}

// Handlers

func (api *catalogApi) query(ctx echo.Context) error {
	filter := new(catalog.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []catalog.Course{})
	}
	filter.Clean()

	courses, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "filtering courses")
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

// retrieve accepts a course slug or, failing that, its id.
func (api *catalogApi) retrieve(ctx echo.Context) error {
	ref := ctx.Param("id")
	course, err := api.svc.GetBySlug(ref)
	if errors.Cause(err) == catalog.ErrNotFound {
		course, err = api.svc.GetByID(ref)
	}
	if err != nil {
		return errors.Wrap(err, "finding course")
	}
	return ctx.JSON(http.StatusOK, course)
}

func (api *catalogApi) featured(ctx echo.Context) error {
	courses, err := api.svc.Featured()
	if err != nil {
		return errors.Wrap(err, "querying featured courses")
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *catalogApi) popular(ctx echo.Context) error {
	courses, err := api.svc.Popular()
	if err != nil {
		return errors.Wrap(err, "querying popular courses")
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *catalogApi) toggleFavorite(ctx echo.Context) error {
	owner := favoritesOwner(ctx)
	if owner == "" {
		return errHttpNotFound
	}
	isFav, err := api.svc.ToggleFavorite(owner, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "toggling favorite")
	}
	return ctx.JSON(http.StatusOK, FavoriteResponse{CourseID: ctx.Param("id"), Favorite: isFav})
}

func (api *catalogApi) favorites(ctx echo.Context) error {
	owner := favoritesOwner(ctx)
	if owner == "" {
		return ctx.JSON(http.StatusOK, []catalog.Course{})
	}
	courses, err := api.svc.Favorites(owner)
	if err != nil {
		return errors.Wrap(err, "querying favorites")
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *catalogApi) create(ctx echo.Context) error {
	var data catalog.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	course, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, course)
}

func (api *catalogApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}

	var data catalog.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(orig, api.svc); err != nil {
		return err
	}

	course, err := api.svc.Update(orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, course)
}

func (api *catalogApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *catalogApi) setFeatured(ctx echo.Context) error {
	var data CuratedListRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CuratedListRequest")
	}
	if err := api.svc.SetFeatured(data.IDs); err != nil {
		return errors.Wrap(err, "setting featured courses")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *catalogApi) setPopular(ctx echo.Context) error {
	var data CuratedListRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CuratedListRequest")
	}
	if err := api.svc.SetPopular(data.IDs); err != nil {
		return errors.Wrap(err, "setting popular courses")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	FavoriteResponse struct {
		CourseID string `json:"course_id"`
		Favorite bool   `json:"favorite"`
	}

	CuratedListRequest struct {
		IDs []string `json:"ids"`
	}
)
