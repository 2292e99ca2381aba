package workflow

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"vehicleloan/internal/domain/agent"
	"vehicleloan/internal/domain/loan"
)

var offerNumberFields = []string{
	"vehicle_value", "down_payment", "down_payment_percentage",
	"eligible_loan_amount", "desired_loan_amount", "approved_loan_amount",
	"interest_rate", "tenure_months", "monthly_emi", "total_interest",
	"total_payable", "income_to_emi_ratio",
}

var offerStringFields = []string{
	"customer_name", "vehicle_description", "eligibility_status",
	"eligibility_reason", "summary",
}

var submissionNumberFields = []string{"approved_loan_amount", "monthly_emi", "tenure_months"}

var submissionStringFields = []string{
	"application_reference_id", "submission_timestamp", "status",
	"customer_name", "vehicle_description", "confirmation_message",
}

var (
	offerSchema      = gojsonschema.NewGoLoader(recordSchema(offerNumberFields, offerStringFields))
	submissionSchema = gojsonschema.NewGoLoader(recordSchema(submissionNumberFields, submissionStringFields))
)

// recordSchema describes an object whose known fields are all optional but
// typed.
func recordSchema(numbers, texts []string) map[string]any {
	props := map[string]any{}
	for _, f := range numbers {
		props[f] = map[string]any{"type": "number"}
	}
	for _, f := range texts {
		props[f] = map[string]any{"type": "string"}
	}
	return map[string]any{"type": "object", "properties": props}
}

// extractResult returns the collaborator's result object, decoding a
// string-encoded payload a second time. ok is false unless the envelope
// reports success and carries an object.
func extractResult(env *agent.Envelope) (map[string]any, bool) {
	if env == nil || !env.Success {
		return nil, false
	}
	raw := bytes.TrimSpace(env.Response.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false
		}
		raw = []byte(strings.TrimSpace(s))
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return nil, false
	}
	return out, true
}

// sanitize coerces numeric strings and drops fields whose type does not
// match schema, so the per-field defaults apply to them.
func sanitize(data map[string]any, numbers []string, schema gojsonschema.JSONLoader, log *zap.Logger) {
	for _, f := range numbers {
		s, ok := data[f].(string)
		if !ok {
			continue
		}
		if n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64); err == nil {
			data[f] = n
		}
	}
	for k, v := range data {
		if v == nil {
			delete(data, k)
		}
	}

	res, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(data))
	if err != nil {
		log.Warn("result schema check failed", zap.Error(err))
		return
	}
	for _, e := range res.Errors() {
		field := e.Field()
		if _, ok := data[field]; ok {
			log.Warn("dropping mistyped result field", zap.String("field", field), zap.String("reason", e.Description()))
			delete(data, field)
		}
	}
}

func str(data map[string]any, key, def string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return def
}

func num(data map[string]any, key string, def float64) float64 {
	if n, ok := data[key].(float64); ok && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return n
	}
	return def
}

func months(data map[string]any, key string, def int) int {
	if n, ok := data[key].(float64); ok && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return int(math.Round(n))
	}
	return def
}

// buildOffer fills every LoanOffer field, falling back to the draft where
// the draft knows the answer and to zero values otherwise.
func buildOffer(data map[string]any, d loan.Draft, log *zap.Logger) loan.LoanOffer {
	sanitize(data, offerNumberFields, offerSchema, log)
	return loan.LoanOffer{
		CustomerName:          str(data, "customer_name", d.Customer.Name),
		VehicleDescription:    str(data, "vehicle_description", d.Vehicle.Description()),
		VehicleValue:          num(data, "vehicle_value", d.Vehicle.VehicleValue),
		DownPayment:           num(data, "down_payment", 0),
		DownPaymentPercentage: num(data, "down_payment_percentage", 0),
		EligibleLoanAmount:    num(data, "eligible_loan_amount", 0),
		DesiredLoanAmount:     num(data, "desired_loan_amount", d.LoanPreferences.DesiredLoanAmount),
		ApprovedLoanAmount:    num(data, "approved_loan_amount", 0),
		InterestRate:          num(data, "interest_rate", 0),
		TenureMonths:          months(data, "tenure_months", d.LoanPreferences.PreferredTenure),
		MonthlyEMI:            num(data, "monthly_emi", 0),
		TotalInterest:         num(data, "total_interest", 0),
		TotalPayable:          num(data, "total_payable", 0),
		EligibilityStatus:     str(data, "eligibility_status", loan.EligibilityUnknown),
		EligibilityReason:     str(data, "eligibility_reason", ""),
		IncomeToEMIRatio:      num(data, "income_to_emi_ratio", 0),
		Summary:               str(data, "summary", ""),
	}
}

// buildSubmission fills every Submission field, falling back to the offer's
// own terms.
func buildSubmission(data map[string]any, d loan.Draft, offer loan.LoanOffer, now time.Time, log *zap.Logger) loan.Submission {
	sanitize(data, submissionNumberFields, submissionSchema, log)
	return loan.Submission{
		ApplicationReferenceID: str(data, "application_reference_id", "-"),
		SubmissionTimestamp:    str(data, "submission_timestamp", now.UTC().Format(time.RFC3339)),
		Status:                 str(data, "status", string(loan.StatusSubmitted)),
		CustomerName:           str(data, "customer_name", d.Customer.Name),
		VehicleDescription:     str(data, "vehicle_description", offer.VehicleDescription),
		ApprovedLoanAmount:     num(data, "approved_loan_amount", offer.ApprovedLoanAmount),
		MonthlyEMI:             num(data, "monthly_emi", offer.MonthlyEMI),
		TenureMonths:           months(data, "tenure_months", offer.TenureMonths),
		ConfirmationMessage:    str(data, "confirmation_message", "Application submitted successfully."),
	}
}
