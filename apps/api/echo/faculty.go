package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
)

type facultyApi struct {
	svc      *campus.Service
	validate *validator.Validate
}

func registerFacultyAPI(g *echo.Group, svc *campus.Service, validate *validator.Validate) {
	api := facultyApi{
		svc:      svc,
		validate: validate,
	}

	fg := g.Group("/faculty/:id")
	fg.GET("/schedule", api.schedule)
	fg.GET("/workload", api.workload)
	fg.GET("/leaves", api.leaves)
	fg.POST("/leaves", api.requestLeave)
}

func facultyID(ctx echo.Context) string {
	return core.CleanString(ctx.Param("id"))
}

// Handlers

func (api *facultyApi) schedule(ctx echo.Context) error {
	list, err := api.svc.FacultySchedule(ctx.Request().Context(), facultyID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *facultyApi) workload(ctx echo.Context) error {
	w, err := api.svc.FacultyWorkload(ctx.Request().Context(), facultyID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, w)
}

func (api *facultyApi) leaves(ctx echo.Context) error {
	list, err := api.svc.Leaves(ctx.Request().Context(), facultyID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *facultyApi) requestLeave(ctx echo.Context) error {
	var data campus.NewLeave
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLeave")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	l, err := api.svc.RequestLeave(ctx.Request().Context(), facultyID(ctx), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LeaveResponse{OK: true, Leave: l})
}
