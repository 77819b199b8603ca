package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/material"
)

type materialApi struct {
	svc *material.Service
}

func registerMaterialAPI(g *echo.Group, svc *material.Service) {
	api := materialApi{svc: svc}

	mg := g.Group("/materials")
	mg.GET("", api.query)
	mg.GET("/:id", api.retrieve)

	// authoring endpoints
	ig := mg.Group("", instructorMiddleware())
	ig.POST("", api.create)
	ig.PUT("/:id", api.update)
	ig.DELETE("/:id", api.destroy)
	ig.POST("/:id/videos", api.addVideo)
	ig.POST("/:id/resources", api.addResource)

	g.DELETE("/videos/:id", api.removeVideo, instructorMiddleware())
}

// Handlers

func (api *materialApi) create(ctx echo.Context) error {
	var data material.NewMaterial
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMaterial")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	mat, err := api.svc.Create(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "creating material")
	}
	return ctx.JSON(http.StatusCreated, mat)
}

// query lists the actor's own materials for instructors, the public catalog
// for everyone else.
func (api *materialApi) query(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var materials []material.Material
	if actor.IsInstructor() {
		materials, err = api.svc.QueryOwned(ctx.Request().Context(), actor)
	} else {
		materials, err = api.svc.QueryPublic(ctx.Request().Context())
	}
	if err != nil {
		return errors.Wrap(err, "querying materials")
	}
	return ctx.JSON(http.StatusOK, materials)
}

func (api *materialApi) retrieve(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	detail, err := api.svc.Get(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *materialApi) update(ctx echo.Context) error {
	var data material.UpdateMaterial
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMaterial")
	}

	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	mat, err := api.svc.Update(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mat)
}

func (api *materialApi) destroy(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), actor, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *materialApi) addVideo(ctx echo.Context) error {
	var data material.NewVideo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVideo")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	vid, err := api.svc.AddVideo(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, vid)
}

func (api *materialApi) removeVideo(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.RemoveVideo(ctx.Request().Context(), actor, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *materialApi) addResource(ctx echo.Context) error {
	var data material.NewResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	res, err := api.svc.AddResource(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, res)
}
