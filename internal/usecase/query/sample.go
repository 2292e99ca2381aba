package query

import (
	"time"

	"vehicleloan/internal/domain/loan"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleApplications returns fresh copies of the demo applications shown
// when sample mode is on. They are never persisted.
func SampleApplications() []loan.Application {
	return []loan.Application{
		{
			ID:              "APP-DEMO001",
			Customer:        loan.Customer{Name: "Rajesh Kumar", Phone: "9876543210", Email: "rajesh@example.com", Address: "42, MG Road, Bengaluru", IDType: "Aadhaar"},
			Vehicle:         loan.Vehicle{VehicleType: loan.VehicleNew, Make: "Maruti Suzuki", Model: "Swift", Year: "2025", DealerName: "Nexa Showroom", VehicleValue: 850000},
			Financial:       loan.Financial{MonthlyIncome: 75000, ExistingEmis: 5000, CreditScoreRange: "750-800", EmploymentType: "Salaried"},
			LoanPreferences: loan.LoanPreferences{DesiredLoanAmount: 600000, PreferredTenure: 60},
			LoanOffer: &loan.LoanOffer{
				CustomerName: "Rajesh Kumar", VehicleDescription: "New Maruti Suzuki Swift 2025",
				VehicleValue: 850000, DownPayment: 255000, DownPaymentPercentage: 30,
				EligibleLoanAmount: 595000, DesiredLoanAmount: 600000, ApprovedLoanAmount: 595000,
				InterestRate: 8.5, TenureMonths: 60, MonthlyEMI: 12197, TotalInterest: 136820, TotalPayable: 731820,
				EligibilityStatus: loan.EligibilityEligible, EligibilityReason: "Good income-to-EMI ratio and credit score",
				IncomeToEMIRatio: 22.93, Summary: "Loan approved for Rajesh Kumar for New Maruti Suzuki Swift 2025.",
			},
			Submission: &loan.Submission{
				ApplicationReferenceID: "VL-2025-0001", SubmissionTimestamp: "2025-12-15T11:00:00Z",
				Status: "Submitted", CustomerName: "Rajesh Kumar", VehicleDescription: "New Maruti Suzuki Swift 2025",
				ApprovedLoanAmount: 595000, MonthlyEMI: 12197, TenureMonths: 60,
				ConfirmationMessage: "Application submitted successfully.",
			},
			Status:    loan.StatusSubmitted,
			CreatedAt: ts("2025-12-15T10:30:00Z"),
			UpdatedAt: ts("2025-12-15T11:00:00Z"),
		},
		{
			ID:              "APP-DEMO002",
			Customer:        loan.Customer{Name: "Priya Sharma", Phone: "9123456789", Email: "priya@example.com", Address: "15, Park Street, Kolkata", IDType: "PAN Card"},
			Vehicle:         loan.Vehicle{VehicleType: loan.VehicleNew, Make: "Hyundai", Model: "Creta", Year: "2025", DealerName: "Hyundai Hub", VehicleValue: 1450000},
			Financial:       loan.Financial{MonthlyIncome: 120000, ExistingEmis: 10000, CreditScoreRange: "Above 800", EmploymentType: "Business Owner"},
			LoanPreferences: loan.LoanPreferences{DesiredLoanAmount: 1000000, PreferredTenure: 48},
			LoanOffer: &loan.LoanOffer{
				CustomerName: "Priya Sharma", VehicleDescription: "New Hyundai Creta 2025",
				VehicleValue: 1450000, DownPayment: 435000, DownPaymentPercentage: 30,
				EligibleLoanAmount: 1015000, DesiredLoanAmount: 1000000, ApprovedLoanAmount: 1000000,
				InterestRate: 7.5, TenureMonths: 48, MonthlyEMI: 24178, TotalInterest: 160544, TotalPayable: 1160544,
				EligibilityStatus: loan.EligibilityEligible, EligibilityReason: "Excellent credit score and strong income",
				IncomeToEMIRatio: 20.15, Summary: "Loan approved for Priya Sharma for New Hyundai Creta 2025.",
			},
			Status:    loan.StatusCalculated,
			CreatedAt: ts("2025-12-14T08:00:00Z"),
			UpdatedAt: ts("2025-12-14T09:00:00Z"),
		},
		{
			ID:              "APP-DEMO003",
			Customer:        loan.Customer{Name: "Amit Patel", Phone: "9988776655", Email: "amit@example.com", Address: "7, SG Highway, Ahmedabad", IDType: "Driving License"},
			Vehicle:         loan.Vehicle{VehicleType: loan.VehicleSecondHand, Make: "Honda", Model: "City", Year: "2022", DealerName: "TruValue Motors", VehicleValue: 750000},
			Financial:       loan.Financial{MonthlyIncome: 55000, ExistingEmis: 8000, CreditScoreRange: "650-700", EmploymentType: "Salaried"},
			LoanPreferences: loan.LoanPreferences{DesiredLoanAmount: 500000, PreferredTenure: 36},
			Status:          loan.StatusDraft,
			CreatedAt:       ts("2025-12-13T14:00:00Z"),
			UpdatedAt:       ts("2025-12-13T14:00:00Z"),
		},
	}
}
