package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
)

type feeApi struct {
	svc      *campus.Service
	validate *validator.Validate
}

func registerFeeAPI(g *echo.Group, svc *campus.Service, validate *validator.Validate) {
	api := feeApi{
		svc:      svc,
		validate: validate,
	}

	g.GET("/student/:id/fees", api.studentFees)
	g.POST("/student/:id/fees/payment", api.pay)
	g.GET("/faculty/:id/fee-overview", api.facultyOverview)

	hg := g.Group("/hod")
	hg.GET("/fee-reports", api.hodReports)
	hg.POST("/scholarships/:id/approve", api.resolveScholarship)

	ag := g.Group("/admin")
	ag.GET("/fee-management", api.adminManagement)
	ag.POST("/fee-structure", api.addFeeStructure)
	ag.POST("/fee-reminders/send", api.sendReminders)
}

// Handlers

func (api *feeApi) studentFees(ctx echo.Context) error {
	fees, err := api.svc.StudentFees(ctx.Request().Context(), studentID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (api *feeApi) pay(ctx echo.Context) error {
	var data campus.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	txn, err := api.svc.RecordPayment(ctx.Request().Context(), studentID(ctx), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, PaymentResponse{OK: true, Transaction: txn})
}

func (api *feeApi) facultyOverview(ctx echo.Context) error {
	overview, err := api.svc.FacultyFeeOverview(ctx.Request().Context(), core.CleanString(ctx.Param("id")))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, overview)
}

func (api *feeApi) hodReports(ctx echo.Context) error {
	reports, err := api.svc.HODFeeReports(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reports)
}

// resolveScholarship accepts a scholarship id or a student id in the path.
func (api *feeApi) resolveScholarship(ctx echo.Context) error {
	var data campus.ScholarshipDecision
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScholarshipDecision")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.ResolveScholarship(ctx.Request().Context(), core.CleanString(ctx.Param("id")), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ScholarshipResponse{OK: true, Scholarship: s})
}

func (api *feeApi) adminManagement(ctx echo.Context) error {
	mgmt, err := api.svc.AdminFeeManagement(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mgmt)
}

func (api *feeApi) addFeeStructure(ctx echo.Context) error {
	var data campus.NewFeeStructure
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeeStructure")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	f, err := api.svc.AddFeeStructure(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, FeeStructureResponse{OK: true, FeeStructure: f})
}

func (api *feeApi) sendReminders(ctx echo.Context) error {
	sent, err := api.svc.SendDueReminders(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, RemindersResponse{OK: true, Sent: sent})
}
