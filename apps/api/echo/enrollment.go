package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core"
	"github.com/veta-academy/backend/core/enrollment"
	"github.com/veta-academy/backend/core/notification"
	"github.com/veta-academy/backend/core/platform"
)

type enrollmentApi struct {
	svc enrollment.Service
	hub *notification.Hub
}

func registerEnrollmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc enrollment.Service, hub *notification.Hub) {
	api := enrollmentApi{svc: svc, hub: hub}

	// all endpoints require authentication
	eg := g.Group("/enrollments", jwt)
	eg.POST("", api.enroll)
	eg.GET("", api.query)
	eg.GET("/loyalty", api.loyalty)
}

// Handlers

func (api *enrollmentApi) enroll(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data EnrollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	enr, err := api.svc.Enroll(claims.Subject, data.CourseID)
	if err != nil {
		return errors.Wrap(err, "enrolling")
	}
	api.hub.For(claims.Subject).Success("¡Inscripción exitosa!")
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *enrollmentApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	enrollments, err := api.svc.ByUser(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if enrollments == nil {
		enrollments = []enrollment.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *enrollmentApi) loyalty(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	points, err := api.svc.PointsBalance(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying points balance")
	}
	res := LoyaltyResponse{Points: points}
	if tier, ok, err := api.svc.Tier(claims.Subject); err == nil && ok {
		res.Tier = &tier
	}
	return ctx.JSON(http.StatusOK, res)
}

type (
	EnrollRequest struct {
		CourseID string `json:"course_id" validate:"required"`
	}

	LoyaltyResponse struct {
		Points int                   `json:"points"`
		Tier   *platform.LoyaltyTier `json:"tier,omitempty"`
	}
)

func (er *EnrollRequest) Validate() error {
	return core.Validate.Struct(er)
}
