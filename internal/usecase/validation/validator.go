// Package validation implements the per-step gate of the application wizard.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"vehicleloan/internal/domain/loan"
)

// Wizard steps. StepReview has no field validation.
const (
	StepCustomer    = 1
	StepVehicle     = 2
	StepFinancial   = 3
	StepPreferences = 4
	StepReview      = 5
)

var (
	rePhone10    = regexp.MustCompile(`^\d{10}$`)
	reEmailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Field types mirror the domain sections so drafts convert directly.
type customerForm struct {
	Name    string `json:"name" validate:"notblank"`
	Phone   string `json:"phone" validate:"notblank,phone10"`
	Email   string `json:"email" validate:"notblank,emailshape"`
	Address string `json:"address" validate:"notblank"`
	IDType  string `json:"idType" validate:"required"`
}

type vehicleForm struct {
	VehicleType  string  `json:"vehicleType" validate:"oneof=New Second-hand"`
	Make         string  `json:"make" validate:"required"`
	Model        string  `json:"model" validate:"notblank"`
	Year         string  `json:"year" validate:"required"`
	DealerName   string  `json:"dealerName" validate:"notblank"`
	VehicleValue float64 `json:"vehicleValue" validate:"gt=0"`
}

type financialForm struct {
	MonthlyIncome    float64 `json:"monthlyIncome" validate:"gt=0"`
	ExistingEmis     float64 `json:"existingEmis" validate:"gte=0"`
	CreditScoreRange string  `json:"creditScoreRange" validate:"required"`
	EmploymentType   string  `json:"employmentType" validate:"required"`
}

type preferencesForm struct {
	DesiredLoanAmount float64 `json:"desiredLoanAmount" validate:"gt=0,lte=1000000"`
	PreferredTenure   int     `json:"preferredTenure" validate:"required,tenure"`
}

// messages is keyed by json field name, then by failing tag.
var messages = map[string]map[string]string{
	"name":              {"notblank": "Name is required"},
	"phone":             {"notblank": "Phone is required", "phone10": "Enter a valid 10-digit phone number"},
	"email":             {"notblank": "Email is required", "emailshape": "Enter a valid email address"},
	"address":           {"notblank": "Address is required"},
	"idType":            {"required": "Please select an ID type"},
	"vehicleType":       {"oneof": "Please select a vehicle type"},
	"make":              {"required": "Please select a vehicle make"},
	"model":             {"notblank": "Model is required"},
	"year":              {"required": "Please select a year"},
	"dealerName":        {"notblank": "Dealer name is required"},
	"vehicleValue":      {"gt": "Enter a valid vehicle value"},
	"monthlyIncome":     {"gt": "Enter a valid monthly income"},
	"existingEmis":      {"gte": "Cannot be negative"},
	"creditScoreRange":  {"required": "Please select a credit score range"},
	"employmentType":    {"required": "Please select an employment type"},
	"desiredLoanAmount": {"gt": "Enter a valid loan amount", "lte": "Maximum loan amount is 10,00,000"},
	"preferredTenure":   {"required": "Please select a tenure", "tenure": "Please select a tenure"},
}

var std = New()

// New returns a validator with the wizard rules registered and field names
// reported by their json tag.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return rePhone10.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return reEmailShape.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("tenure", func(fl validator.FieldLevel) bool {
		n := int(fl.Field().Int())
		for _, t := range loan.TenureMonths {
			if n == t {
				return true
			}
		}
		return false
	})
	return v
}

// Validate checks only the fields belonging to step. An empty map means the
// step passes.
func Validate(step int, c loan.Customer, v loan.Vehicle, f loan.Financial, p loan.LoanPreferences) map[string]string {
	var form any
	switch step {
	case StepCustomer:
		form = customerForm(c)
	case StepVehicle:
		form = vehicleForm(v)
	case StepFinancial:
		form = financialForm(f)
	case StepPreferences:
		form = preferencesForm(p)
	default:
		return map[string]string{}
	}
	return toMessages(std.Struct(form))
}

// ValidateDraft is Validate over a draft's sections.
func ValidateDraft(step int, d loan.Draft) map[string]string {
	return Validate(step, d.Customer, d.Vehicle, d.Financial, d.LoanPreferences)
}

func toMessages(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range ve {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := messages[field][fe.Tag()]; ok {
			out[field] = msg
			continue
		}
		out[field] = fe.Tag() + " validation failed"
	}
	return out
}
