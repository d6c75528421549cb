package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ourson-app/backend/core"
	"github.com/ourson-app/backend/core/content"
)

type contentApi struct {
	svc *content.Service
}

func registerContentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *content.Service) {
	api := contentApi{svc: svc}

	// all authoring endpoints require an editor (or admin) account
	cg := g.Group("/content", jwt, editorMiddleware())

	cg.GET("/templates", api.queryTemplates)

	sg := cg.Group("/sections")
	sg.GET("", api.querySections)
	sg.POST("", api.createSection)
	sg.GET("/:id", api.retrieveSection)
	sg.DELETE("/:id", api.destroySection, adminMiddleware())
	sg.GET("/:id/next-level-number", api.nextLevelNumber)

	lg := cg.Group("/levels")
	lg.POST("", api.createLevel)
	lg.POST("/multi", api.createMultiStepLevel)
	lg.GET("/:id", api.retrieveLevel)
	lg.PUT("/:id", api.updateLevel)
	lg.DELETE("/:id", api.destroyLevel)
	lg.GET("/:id/activities", api.queryLevelActivities)
	lg.POST("/:id/activities/bulk", api.addActivities)

	ag := cg.Group("/activities")
	ag.POST("", api.addActivity)
	ag.PUT("/:id", api.updateActivity)
	ag.DELETE("/:id", api.destroyActivity)
}

// Handlers

func (api *contentApi) queryTemplates(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, TemplatesResponse{
		Categories: content.Categories(),
		Templates:  content.ListByCategory(),
	})
}

func (api *contentApi) querySections(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	var sections []content.Section
	var err error
	if subject := content.Subject(ctx.QueryParam("subject")); subject != "" {
		sections, err = api.svc.QuerySections(rctx, subject)
	} else {
		sections, err = api.svc.QueryAllSections(rctx)
	}
	if err != nil {
		return errors.Wrap(err, "querying sections")
	}
	return ctx.JSON(http.StatusOK, sections)
}

func (api *contentApi) createSection(ctx echo.Context) error {
	var data content.NewSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSection")
	}

	section, err := api.svc.CreateSection(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, section)
}

func (api *contentApi) retrieveSection(ctx echo.Context) error {
	section, err := api.svc.GetSectionByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == content.ErrSectionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding section by ID")
	}
	return ctx.JSON(http.StatusOK, section)
}

func (api *contentApi) destroySection(ctx echo.Context) error {
	if err := api.svc.DeleteSection(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == content.ErrSectionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting section")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *contentApi) nextLevelNumber(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	if _, err := api.svc.GetSectionByID(rctx, ctx.Param("id")); err != nil {
		if errors.Cause(err) == content.ErrSectionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding section by ID")
	}
	num := api.svc.NextLevelNumber(rctx, ctx.Param("id"))
	return ctx.JSON(http.StatusOK, NextLevelNumberResponse{NextLevelNumber: num})
}

func (api *contentApi) createLevel(ctx echo.Context) error {
	var data content.NewLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLevel")
	}

	level, err := api.svc.CreateLevel(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == content.ErrSectionNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, level)
}

func (api *contentApi) createMultiStepLevel(ctx echo.Context) error {
	var data content.NewMultiStepLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMultiStepLevel")
	}

	level, err := api.svc.CreateMultiStepLevel(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == content.ErrSectionNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, level)
}

func (api *contentApi) retrieveLevel(ctx echo.Context) error {
	level, err := api.svc.GetLevelByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == content.ErrLevelNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding level by ID")
	}
	return ctx.JSON(http.StatusOK, level)
}

func (api *contentApi) updateLevel(ctx echo.Context) error {
	var data content.UpdateLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLevel")
	}

	level, err := api.svc.UpdateLevel(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == content.ErrLevelNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, level)
}

func (api *contentApi) destroyLevel(ctx echo.Context) error {
	if err := api.svc.DeleteLevel(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == content.ErrLevelNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting level")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *contentApi) queryLevelActivities(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	if _, err := api.svc.GetLevelByID(rctx, ctx.Param("id")); err != nil {
		if errors.Cause(err) == content.ErrLevelNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding level by ID")
	}
	acts, err := api.svc.QueryLevelActivities(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying level activities")
	}
	if acts == nil {
		acts = []content.Activity{}
	}
	return ctx.JSON(http.StatusOK, acts)
}

func (api *contentApi) addActivity(ctx echo.Context) error {
	var data AddActivityRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddActivityRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	act, err := api.svc.AddActivity(ctx.Request().Context(), data.LevelID, data.NewActivity)
	if err != nil {
		if errors.Cause(err) == content.ErrLevelNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, act)
}

func (api *contentApi) addActivities(ctx echo.Context) error {
	var data AddActivitiesRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddActivitiesRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	acts, err := api.svc.AddActivities(ctx.Request().Context(), ctx.Param("id"), data.Steps)
	if err != nil {
		if errors.Cause(err) == content.ErrLevelNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, acts)
}

func (api *contentApi) updateActivity(ctx echo.Context) error {
	var data content.UpdateActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateActivity")
	}

	act, err := api.svc.UpdateActivity(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == content.ErrActivityNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, act)
}

func (api *contentApi) destroyActivity(ctx echo.Context) error {
	if err := api.svc.DeleteActivity(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == content.ErrActivityNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting activity")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	TemplatesResponse struct {
		Categories []string                         `json:"categories"`
		Templates  map[string][]content.TemplateRef `json:"templates"`
	}

	NextLevelNumberResponse struct {
		NextLevelNumber int `json:"next_level_number"`
	}

	AddActivityRequest struct {
		LevelID string `json:"level_id" validate:"required,uuid4"`
		content.NewActivity
	}

	AddActivitiesRequest struct {
		Steps []content.NewActivity `json:"steps" validate:"required,min=1"`
	}
)
