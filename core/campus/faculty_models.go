package campus

type (
	Faculty struct {
		FacultyID   string `json:"facultyId" bson:"facultyId"`
		Name        string `json:"name" bson:"name"`
		Email       string `json:"email" bson:"email"`
		Department  string `json:"department" bson:"department"`
		Designation string `json:"designation" bson:"designation"`
	}

	FacultyClass struct {
		ID       int    `json:"id" bson:"id"`
		Subject  string `json:"subject" bson:"subject"`
		Time     string `json:"time" bson:"time"`
		Room     string `json:"room" bson:"room"`
		Students int    `json:"students" bson:"students"`
		Type     string `json:"type" bson:"type"`
		Status   string `json:"status" bson:"status"`
		Date     string `json:"date" bson:"date"` // YYYY-MM-DD
	}

	Leave struct {
		ID     int64  `json:"id" bson:"id"`
		Date   string `json:"date" bson:"date"` // YYYY-MM-DD
		Reason string `json:"reason" bson:"reason"`
		Status string `json:"status" bson:"status"`
		Type   string `json:"type" bson:"type"`
	}

	SubjectHours struct {
		Subject string `json:"subject" bson:"subject"`
		Hours   int    `json:"hours" bson:"hours"`
		Color   string `json:"color" bson:"color"`
	}

	Workload struct {
		WeeklyHours  int            `json:"weeklyHours" bson:"weeklyHours"`
		MonthlyHours int            `json:"monthlyHours" bson:"monthlyHours"`
		Subjects     int            `json:"subjects" bson:"subjects"`
		Students     int            `json:"students" bson:"students"`
		Distribution []SubjectHours `json:"distribution" bson:"distribution"`
	}
)

// EmptyWorkload is the workload of a faculty member nothing was recorded for.
func EmptyWorkload() Workload {
	return Workload{Distribution: []SubjectHours{}}
}
