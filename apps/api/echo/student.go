package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
)

const (
	uploadLimit = "10M"
	qrSize      = 256
)

type studentApi struct {
	svc      *campus.Service
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, svc *campus.Service, validate *validator.Validate) {
	api := studentApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/student/:id")
	sg.GET("/timetable", api.timetable)
	sg.GET("/attendance", api.attendance)
	sg.GET("/assignments", api.assignments)
	sg.POST("/assignments/upload", api.upload, middleware.BodyLimit(uploadLimit))
	sg.GET("/notifications", api.notifications)
	sg.GET("/bookings", api.bookings)
	sg.POST("/bookings", api.book)
	sg.GET("/id", api.idCard)
	sg.GET("/id/qr", api.qrCode)
	sg.GET("/analytics", api.analytics)
	sg.GET("/timeline", api.timeline)
	sg.GET("/materials", api.materials)
	sg.GET("/exams", api.exams)
	sg.GET("/feedback", api.feedback)
	sg.POST("/feedback", api.submitFeedback)
}

func studentID(ctx echo.Context) string {
	return core.CleanString(ctx.Param("id"))
}

// Handlers

func (api *studentApi) timetable(ctx echo.Context) error {
	week, err := api.svc.Timetable(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TimetableResponse{Week: week})
}

func (api *studentApi) attendance(ctx echo.Context) error {
	rec, err := api.svc.Attendance(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *studentApi) assignments(ctx echo.Context) error {
	list, err := api.svc.Assignments(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, list)
}

// upload takes a multipart form; both the `file` and `title` parts are optional.
func (api *studentApi) upload(ctx echo.Context) error {
	data := campus.NewSubmission{Title: ctx.FormValue("title")}

	fh, err := ctx.FormFile("file")
	switch {
	case err == nil:
		data.FileName = fh.Filename
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return errors.Wrap(err, "reading uploaded file")
	}

	if _, err = api.svc.SubmitAssignment(ctx.Request().Context(), studentID(ctx), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, OKResponse{OK: true})
}

func (api *studentApi) notifications(ctx echo.Context) error {
	list, err := api.svc.Notifications(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *studentApi) bookings(ctx echo.Context) error {
	list, err := api.svc.Bookings(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *studentApi) book(ctx echo.Context) error {
	var data campus.NewBooking
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBooking")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	b, err := api.svc.CreateBooking(ctx.Request().Context(), studentID(ctx), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, BookingResponse{OK: true, Booking: b})
}

func (api *studentApi) idCard(ctx echo.Context) error {
	card, err := api.svc.IDCard(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, card)
}

func (api *studentApi) qrCode(ctx echo.Context) error {
	card, err := api.svc.IDCard(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	png, err := qrcode.Encode(card.QRData, qrcode.Medium, qrSize)
	if err != nil {
		return errors.Wrap(err, "encoding qr code")
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}

func (api *studentApi) analytics(ctx echo.Context) error {
	a, err := api.svc.Analytics(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *studentApi) timeline(ctx echo.Context) error {
	list, err := api.svc.Timeline(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *studentApi) materials(ctx echo.Context) error {
	list, err := api.svc.Materials(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *studentApi) exams(ctx echo.Context) error {
	list, err := api.svc.Exams(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *studentApi) feedback(ctx echo.Context) error {
	list, err := api.svc.Feedback(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *studentApi) submitFeedback(ctx echo.Context) error {
	var data campus.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.SubmitFeedback(ctx.Request().Context(), studentID(ctx), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, OKResponse{OK: true})
}
