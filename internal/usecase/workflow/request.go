package workflow

import "vehicleloan/internal/domain/loan"

// Applicant is the flat customer/vehicle/financial key set both
// collaborators receive.
type Applicant struct {
	CustomerName     string  `json:"customer_name"`
	Phone            string  `json:"phone"`
	Email            string  `json:"email"`
	Address          string  `json:"address"`
	IDType           string  `json:"id_type"`
	VehicleType      string  `json:"vehicle_type"`
	VehicleMake      string  `json:"vehicle_make"`
	VehicleModel     string  `json:"vehicle_model"`
	VehicleYear      string  `json:"vehicle_year"`
	DealerName       string  `json:"dealer_name"`
	VehicleValue     float64 `json:"vehicle_value"`
	MonthlyIncome    float64 `json:"monthly_income"`
	ExistingEmis     float64 `json:"existing_emis"`
	CreditScoreRange string  `json:"credit_score_range"`
	EmploymentType   string  `json:"employment_type"`
}

type CalculationRequest struct {
	Applicant
	DesiredLoanAmount     float64 `json:"desired_loan_amount"`
	PreferredTenureMonths int     `json:"preferred_tenure_months"`
}

type ProcessingRequest struct {
	Applicant
	LoanOffer loan.LoanOffer `json:"loan_offer"`
}

func applicantOf(d loan.Draft) Applicant {
	return Applicant{
		CustomerName:     d.Customer.Name,
		Phone:            d.Customer.Phone,
		Email:            d.Customer.Email,
		Address:          d.Customer.Address,
		IDType:           d.Customer.IDType,
		VehicleType:      d.Vehicle.VehicleType,
		VehicleMake:      d.Vehicle.Make,
		VehicleModel:     d.Vehicle.Model,
		VehicleYear:      d.Vehicle.Year,
		DealerName:       d.Vehicle.DealerName,
		VehicleValue:     d.Vehicle.VehicleValue,
		MonthlyIncome:    d.Financial.MonthlyIncome,
		ExistingEmis:     d.Financial.ExistingEmis,
		CreditScoreRange: d.Financial.CreditScoreRange,
		EmploymentType:   d.Financial.EmploymentType,
	}
}

func newCalculationRequest(d loan.Draft) CalculationRequest {
	return CalculationRequest{
		Applicant:             applicantOf(d),
		DesiredLoanAmount:     d.LoanPreferences.DesiredLoanAmount,
		PreferredTenureMonths: d.LoanPreferences.PreferredTenure,
	}
}

func newProcessingRequest(d loan.Draft, offer loan.LoanOffer) ProcessingRequest {
	return ProcessingRequest{Applicant: applicantOf(d), LoanOffer: offer}
}
