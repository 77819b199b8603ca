package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darasa-lms/darasa/core/dashboard"
)

type dashboardApi struct {
	svc *dashboard.Service
}

func registerDashboardAPI(g *echo.Group, svc *dashboard.Service) {
	api := dashboardApi{svc: svc}

	g.GET("/student/dashboard", api.student, studentMiddleware())
	g.GET("/instructor/dashboard", api.instructor, instructorMiddleware())
}

// Handlers

func (api *dashboardApi) student(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	view, err := api.svc.StudentView(ctx.Request().Context(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *dashboardApi) instructor(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	view, err := api.svc.InstructorView(ctx.Request().Context(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view)
}
