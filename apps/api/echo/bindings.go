package echoapi

import "github.com/KAILASATEJANI/nam/core/campus"

type (
	HealthResponse struct {
		OK    bool   `json:"ok"`
		Store string `json:"store"`
	}

	OKResponse struct {
		OK bool `json:"ok"`
	}

	TimetableResponse struct {
		Week campus.WeekSchedule `json:"week"`
	}

	BookingResponse struct {
		OK      bool           `json:"ok"`
		Booking campus.Booking `json:"booking"`
	}

	PaymentResponse struct {
		OK          bool               `json:"ok"`
		Transaction campus.Transaction `json:"transaction"`
	}

	LeaveResponse struct {
		OK    bool         `json:"ok"`
		Leave campus.Leave `json:"leave"`
	}

	ScholarshipResponse struct {
		OK          bool               `json:"ok"`
		Scholarship campus.Scholarship `json:"scholarship"`
	}

	FeeStructureResponse struct {
		OK           bool                `json:"ok"`
		FeeStructure campus.FeeStructure `json:"feeStructure"`
	}

	RemindersResponse struct {
		OK   bool `json:"ok"`
		Sent int  `json:"sent"`
	}
)
