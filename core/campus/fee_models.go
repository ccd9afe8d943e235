package campus

import "time"

type (
	FeeStructure struct {
		ID           string  `json:"id" bson:"id"`
		Program      string  `json:"program" bson:"program"`
		Semester     string  `json:"semester" bson:"semester"`
		FeeType      string  `json:"feeType" bson:"feeType"`
		Amount       float64 `json:"amount" bson:"amount"`
		AcademicYear string  `json:"academicYear" bson:"academicYear"`
	}

	Transaction struct {
		ID            string    `json:"id" bson:"id"`
		StudentID     string    `json:"studentId" bson:"studentId"`
		AmountPaid    float64   `json:"amountPaid" bson:"amountPaid"`
		Date          time.Time `json:"date" bson:"date"`
		Mode          string    `json:"mode" bson:"mode"`
		ReceiptURL    string    `json:"receiptUrl" bson:"receiptUrl"`
		Status        string    `json:"status" bson:"status"`
		FeeType       string    `json:"feeType" bson:"feeType"`
		TransactionID string    `json:"transactionId" bson:"transactionId"`
	}

	Scholarship struct {
		ID           string    `json:"id" bson:"id"`
		StudentID    string    `json:"studentId" bson:"studentId"`
		DiscountType string    `json:"discountType" bson:"discountType"`
		Amount       float64   `json:"amount" bson:"amount"`
		ApprovedBy   string    `json:"approvedBy" bson:"approvedBy"`
		Status       string    `json:"status" bson:"status"`
		CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	}

	DueReminder struct {
		ID           string    `json:"id" bson:"id"`
		StudentID    string    `json:"studentId" bson:"studentId"`
		DueDate      time.Time `json:"dueDate" bson:"dueDate"`
		ReminderSent bool      `json:"reminderSent" bson:"reminderSent"`
		Amount       float64   `json:"amount" bson:"amount"`
		FeeType      string    `json:"feeType" bson:"feeType"`
	}

	FeeSummary struct {
		TotalFee         float64 `json:"totalFee"`
		TotalPaid        float64 `json:"totalPaid"`
		TotalScholarship float64 `json:"totalScholarship"`
		PendingAmount    float64 `json:"pendingAmount"`
		PaidPercentage   float64 `json:"paidPercentage"`
	}

	StudentFees struct {
		FeeStructure []FeeStructure `json:"feeStructure"`
		Transactions []Transaction  `json:"transactions"`
		Scholarships []Scholarship  `json:"scholarships"`
		DueReminders []DueReminder  `json:"dueReminders"`
		Summary      FeeSummary     `json:"summary"`
	}

	RecentPayment struct {
		StudentID string    `json:"studentId"`
		Amount    float64   `json:"amount"`
		Date      time.Time `json:"date"`
		FeeType   string    `json:"feeType"`
	}

	FacultyFeeOverview struct {
		TotalStudents           int             `json:"totalStudents"`
		StudentsWithPendingFees int             `json:"studentsWithPendingFees"`
		PendingAmount           float64         `json:"pendingAmount"`
		CollectionRate          float64         `json:"collectionRate"`
		RecentPayments          []RecentPayment `json:"recentPayments"`
	}

	DepartmentCollection struct {
		CurrentMonth float64 `json:"currentMonth"`
		LastMonth    float64 `json:"lastMonth"`
		Growth       float64 `json:"growth"`
	}

	Defaulter struct {
		StudentID     string  `json:"studentId"`
		Name          string  `json:"name"`
		PendingAmount float64 `json:"pendingAmount"`
		DaysOverdue   int     `json:"daysOverdue"`
	}

	HODFeeReports struct {
		DepartmentCollection DepartmentCollection `json:"departmentCollection"`
		DefaultersList       []Defaulter          `json:"defaultersList"`
		ScholarshipRequests  []Scholarship        `json:"scholarshipRequests"`
	}

	DailyCollection struct {
		Date   string  `json:"date"`
		Amount float64 `json:"amount"`
	}

	PendingFees struct {
		FeeType string  `json:"feeType"`
		Count   int     `json:"count"`
		Amount  float64 `json:"amount"`
	}

	BankReconciliation struct {
		TotalCollected  float64 `json:"totalCollected"`
		BankDeposits    float64 `json:"bankDeposits"`
		PendingDeposits float64 `json:"pendingDeposits"`
	}

	FeeAnalytics struct {
		DailyCollection         []DailyCollection  `json:"dailyCollection"`
		PendingFeesDistribution []PendingFees      `json:"pendingFeesDistribution"`
		RefundsIssued           float64            `json:"refundsIssued"`
		BankReconciliation      BankReconciliation `json:"bankReconciliation"`
	}

	AdminFeeManagement struct {
		FeeStructures   []FeeStructure `json:"feeStructures"`
		AllTransactions []Transaction  `json:"allTransactions"`
		Analytics       FeeAnalytics   `json:"analytics"`
	}
)

// Summarize computes the fee summary of one student from the raw collections.
func Summarize(catalog []FeeStructure, txns []Transaction, scholarships []Scholarship) FeeSummary {
	var sum FeeSummary
	for _, f := range catalog {
		sum.TotalFee += f.Amount
	}
	for _, t := range txns {
		sum.TotalPaid += t.AmountPaid
	}
	for _, s := range scholarships {
		if s.Status == StatusApproved {
			sum.TotalScholarship += s.Amount
		}
	}
	sum.PendingAmount = sum.TotalFee - sum.TotalPaid - sum.TotalScholarship
	if sum.TotalFee != 0 {
		sum.PaidPercentage = roundHalfUp(sum.TotalPaid / sum.TotalFee * 100)
	}
	return sum
}
