package campus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KAILASATEJANI/nam/core/campus"
	"github.com/KAILASATEJANI/nam/tests"
)

func TestNewBooking_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()

	tests := []struct {
		name     string
		booking  campus.NewBooking
		wantType string
		wantRoom string
		wantErr  bool
	}{
		{
			name:     "resource type defaults to Room",
			booking:  campus.NewBooking{Room: " LH-1 ", Date: "2024-03-12", TimeSlot: "10:00-11:00"},
			wantType: "Room",
			wantRoom: "LH-1",
		},
		{
			name:     "blank resource type",
			booking:  campus.NewBooking{ResourceType: "  ", Room: "LH-1", Date: "2024-03-12", TimeSlot: "10:00-11:00"},
			wantType: "Room",
			wantRoom: "LH-1",
		},
		{
			name:     "resource type kept",
			booking:  campus.NewBooking{ResourceType: "Lab", Room: "L1", Date: "2024-03-12", TimeSlot: "10:00-11:00"},
			wantType: "Lab",
			wantRoom: "L1",
		},
		{
			name:    "missing room",
			booking: campus.NewBooking{Date: "2024-03-12", TimeSlot: "10:00-11:00"},
			wantErr: true,
		},
		{
			name:    "bad date",
			booking: campus.NewBooking{Room: "LH-1", Date: "12/03/2024", TimeSlot: "10:00-11:00"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nb := tt.booking
			err := nb.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, nb.ResourceType)
			assert.Equal(t, tt.wantRoom, nb.Room)
		})
	}
}

func TestScholarshipDecision_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()

	for in, want := range map[string]string{
		"approve":  campus.StatusApproved,
		" Reject ": campus.StatusRejected,
		"approved": campus.StatusApproved,
		"REJECTED": campus.StatusRejected,
	} {
		sd := campus.ScholarshipDecision{Action: in}
		if assert.NoError(t, sd.Validate(validate), in) {
			assert.Equal(t, want, sd.Action, in)
		}
	}

	sd := campus.ScholarshipDecision{Action: "maybe"}
	assert.Error(t, sd.Validate(validate))
}
