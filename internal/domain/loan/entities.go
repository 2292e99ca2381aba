package loan

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("application not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyResolved   = errors.New("application already resolved")
)

// MaxLoanAmount is the ceiling on the desired loan amount.
const MaxLoanAmount = 1_000_000

type Status string

const (
	StatusDraft       Status = "Draft"
	StatusCalculated  Status = "Calculated"
	StatusSubmitted   Status = "Submitted"
	StatusUnderReview Status = "Under Review"
	StatusApproved    Status = "Approved"
	StatusRejected    Status = "Rejected"
)

// Rank orders statuses along the lifecycle; Approved and Rejected share the
// terminal rank. Unknown statuses rank -1.
func (s Status) Rank() int {
	switch s {
	case StatusDraft:
		return 0
	case StatusCalculated:
		return 1
	case StatusSubmitted:
		return 2
	case StatusUnderReview:
		return 3
	case StatusApproved, StatusRejected:
		return 4
	}
	return -1
}

func (s Status) Valid() bool { return s.Rank() >= 0 }

func (s Status) Resolved() bool { return s == StatusApproved || s == StatusRejected }

var AllStatuses = []Status{
	StatusDraft, StatusCalculated, StatusSubmitted,
	StatusUnderReview, StatusApproved, StatusRejected,
}

const (
	VehicleNew        = "New"
	VehicleSecondHand = "Second-hand"
)

const (
	EligibilityEligible   = "Eligible"
	EligibilityAdjusted   = "Adjusted"
	EligibilityIneligible = "Ineligible"
	EligibilityUnknown    = "Unknown"
)

var (
	IDTypes = []string{"Aadhaar", "PAN Card", "Voter ID", "Driving License", "Passport"}

	// CreditScoreRanges is ordered from lowest to highest.
	CreditScoreRanges = []string{"Below 600", "600-650", "650-700", "700-750", "750-800", "Above 800"}

	EmploymentTypes = []string{"Salaried", "Self-employed", "Business Owner", "Professional", "Government Employee"}

	TenureMonths = []int{12, 24, 36, 48, 60}
)

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	IDType  string `json:"idType"`
}

type Vehicle struct {
	VehicleType  string  `json:"vehicleType"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         string  `json:"year"`
	DealerName   string  `json:"dealerName"`
	VehicleValue float64 `json:"vehicleValue"`
}

// Description is the "<type> <make> <model> <year>" label used when the
// calculator does not send one.
func (v Vehicle) Description() string {
	return v.VehicleType + " " + v.Make + " " + v.Model + " " + v.Year
}

type Financial struct {
	MonthlyIncome    float64 `json:"monthlyIncome"`
	ExistingEmis     float64 `json:"existingEmis"`
	CreditScoreRange string  `json:"creditScoreRange"`
	EmploymentType   string  `json:"employmentType"`
}

type LoanPreferences struct {
	DesiredLoanAmount float64 `json:"desiredLoanAmount"`
	PreferredTenure   int     `json:"preferredTenure"`
}

// LoanOffer is produced by the calculation collaborator.
type LoanOffer struct {
	CustomerName          string  `json:"customer_name"`
	VehicleDescription    string  `json:"vehicle_description"`
	VehicleValue          float64 `json:"vehicle_value"`
	DownPayment           float64 `json:"down_payment"`
	DownPaymentPercentage float64 `json:"down_payment_percentage"`
	EligibleLoanAmount    float64 `json:"eligible_loan_amount"`
	DesiredLoanAmount     float64 `json:"desired_loan_amount"`
	ApprovedLoanAmount    float64 `json:"approved_loan_amount"`
	InterestRate          float64 `json:"interest_rate"`
	TenureMonths          int     `json:"tenure_months"`
	MonthlyEMI            float64 `json:"monthly_emi"`
	TotalInterest         float64 `json:"total_interest"`
	TotalPayable          float64 `json:"total_payable"`
	EligibilityStatus     string  `json:"eligibility_status"`
	EligibilityReason     string  `json:"eligibility_reason"`
	IncomeToEMIRatio      float64 `json:"income_to_emi_ratio"`
	Summary               string  `json:"summary"`
}

// Submission is produced by the processing collaborator.
type Submission struct {
	ApplicationReferenceID string  `json:"application_reference_id"`
	SubmissionTimestamp    string  `json:"submission_timestamp"`
	Status                 string  `json:"status"`
	CustomerName           string  `json:"customer_name"`
	VehicleDescription     string  `json:"vehicle_description"`
	ApprovedLoanAmount     float64 `json:"approved_loan_amount"`
	MonthlyEMI             float64 `json:"monthly_emi"`
	TenureMonths           int     `json:"tenure_months"`
	ConfirmationMessage    string  `json:"confirmation_message"`
}

type Application struct {
	ID              string          `json:"id"`
	Customer        Customer        `json:"customer"`
	Vehicle         Vehicle         `json:"vehicle"`
	Financial       Financial       `json:"financial"`
	LoanPreferences LoanPreferences `json:"loanPreferences"`
	LoanOffer       *LoanOffer      `json:"loanOffer,omitempty"`
	Submission      *Submission     `json:"submission,omitempty"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Clone returns a deep copy; offer and submission pointers are not shared.
func (a Application) Clone() Application {
	out := a
	if a.LoanOffer != nil {
		o := *a.LoanOffer
		out.LoanOffer = &o
	}
	if a.Submission != nil {
		s := *a.Submission
		out.Submission = &s
	}
	return out
}

// Draft is the editable, uncommitted wizard data.
type Draft struct {
	Customer        Customer        `json:"customer"`
	Vehicle         Vehicle         `json:"vehicle"`
	Financial       Financial       `json:"financial"`
	LoanPreferences LoanPreferences `json:"loanPreferences"`
}

// NewDraft returns an empty draft; the vehicle type starts as New.
func NewDraft() Draft {
	return Draft{Vehicle: Vehicle{VehicleType: VehicleNew}}
}

// DraftFrom copies the input sections of a committed application.
func DraftFrom(a Application) Draft {
	return Draft{
		Customer:        a.Customer,
		Vehicle:         a.Vehicle,
		Financial:       a.Financial,
		LoanPreferences: a.LoanPreferences,
	}
}
