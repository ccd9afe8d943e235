package campus

import (
	"github.com/go-playground/validator/v10"

	"github.com/KAILASATEJANI/nam/core"
)

const defaultResourceType = "Room"

type (
	NewSubmission struct {
		Title    string `form:"title" json:"title"`
		FileName string `form:"-" json:"-"`
	}

	NewBooking struct {
		ResourceType string `json:"resourceType"`
		Room         string `json:"room" validate:"required"`
		Date         string `json:"date" validate:"required,isodate"`
		TimeSlot     string `json:"timeSlot" validate:"required"`
	}

	NewFeedback struct {
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
		Comment string `json:"comment" validate:"max=2000"`
	}

	NewPayment struct {
		Amount  float64 `json:"amount" validate:"required,gt=0"`
		Mode    string  `json:"mode" validate:"required"`
		FeeType string  `json:"feeType" validate:"required"`
	}

	NewLeave struct {
		Date   string `json:"date" validate:"required,isodate"`
		Reason string `json:"reason" validate:"required"`
		Type   string `json:"type"`
	}

	NewFeeStructure struct {
		Program      string  `json:"program" validate:"required"`
		Semester     string  `json:"semester" validate:"required"`
		FeeType      string  `json:"feeType" validate:"required"`
		Amount       float64 `json:"amount" validate:"required,gt=0"`
		AcademicYear string  `json:"academicYear" validate:"required"`
	}

	ScholarshipDecision struct {
		Action string `json:"action" validate:"required,oneof=approved rejected"`
	}
)

func (ns *NewSubmission) Clean() {
	ns.Title = core.CleanString(ns.Title)
	ns.FileName = core.CleanString(ns.FileName)
}

func (nb *NewBooking) Validate(validate *validator.Validate) error {
	nb.ResourceType = core.CleanString(nb.ResourceType)
	if nb.ResourceType == "" {
		nb.ResourceType = defaultResourceType
	}
	nb.Room = core.CleanString(nb.Room)
	nb.Date = core.CleanString(nb.Date)
	nb.TimeSlot = core.CleanString(nb.TimeSlot)
	return validate.Struct(nb)
}

func (nf *NewFeedback) Validate(validate *validator.Validate) error {
	nf.Comment = core.CleanString(nf.Comment)
	return validate.Struct(nf)
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.Mode = core.CleanString(np.Mode)
	np.FeeType = core.CleanString(np.FeeType)
	return validate.Struct(np)
}

func (nl *NewLeave) Validate(validate *validator.Validate) error {
	nl.Date = core.CleanString(nl.Date)
	nl.Reason = core.CleanString(nl.Reason)
	nl.Type = core.CleanString(nl.Type, true /* lower */)
	if nl.Type == "" {
		nl.Type = "personal"
	}
	if err := validate.Struct(nl); err != nil {
		return err
	}
	if d, ok := core.ParseDate(nl.Date); ok {
		nl.Date = d.Format("2006-01-02")
	}
	return nil
}

func (nf *NewFeeStructure) Validate(validate *validator.Validate) error {
	nf.Program = core.CleanString(nf.Program)
	nf.Semester = core.CleanString(nf.Semester)
	nf.FeeType = core.CleanString(nf.FeeType)
	nf.AcademicYear = core.CleanString(nf.AcademicYear)
	return validate.Struct(nf)
}

// Validate also accepts the "approve" & "reject" verbs.
func (sd *ScholarshipDecision) Validate(validate *validator.Validate) error {
	sd.Action = core.CleanString(sd.Action, true /* lower */)
	switch sd.Action {
	case "approve":
		sd.Action = StatusApproved
	case "reject":
		sd.Action = StatusRejected
	}
	return validate.Struct(sd)
}
