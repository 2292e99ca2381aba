// Package workflow drives the loan application wizard: step gating, the
// in-progress draft and the two collaborator calls that turn a draft into a
// committed application.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"go.uber.org/zap"

	"vehicleloan/internal/domain/agent"
	"vehicleloan/internal/domain/loan"
	"vehicleloan/internal/infrastructure/metrics"
	"vehicleloan/internal/usecase/registry"
	"vehicleloan/internal/usecase/validation"
	"vehicleloan/pkg/id"
)

var (
	ErrBusy       = errors.New("a collaborator call is already in flight")
	ErrWrongStage = errors.New("operation not allowed at the current stage")
	ErrNoOffer    = errors.New("no loan offer to submit")
)

const (
	msgCalculateFailed = "Failed to calculate loan offer. Please try again."
	msgSubmitFailed    = "Failed to submit application. Please try again."
	msgUnexpected      = "An unexpected error occurred."
)

type CallKind string

const (
	CallCalculate CallKind = "calculate"
	CallSubmit    CallKind = "submit"
)

type FailureReason string

const (
	// ReasonRejected: the collaborator answered but reported failure.
	ReasonRejected FailureReason = "rejected"
	// ReasonTransport: the exchange did not complete.
	ReasonTransport FailureReason = "transport"
)

// CallError is a recoverable collaborator failure. Message is what the user
// sees; the caller may retry.
type CallError struct {
	Kind    CallKind
	Reason  FailureReason
	Message string
	Err     error
}

func (e *CallError) Error() string { return e.Message }
func (e *CallError) Unwrap() error { return e.Err }

// StepError reports a collection step whose section no longer validates
// when a calculation is requested. The wizard has moved back to Step.
type StepError struct {
	Step   int
	Fields map[string]string
}

func (e *StepError) Error() string { return fmt.Sprintf("step %d is incomplete", e.Step) }

// State is a copy of the engine's observable state.
type State struct {
	Stage       Stage             `json:"stage"`
	Step        int               `json:"step"`
	Screen      Screen            `json:"screen"`
	Draft       loan.Draft        `json:"draft"`
	LoanOffer   *loan.LoanOffer   `json:"loanOffer,omitempty"`
	Submission  *loan.Submission  `json:"submission,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors"`
	CallError   string            `json:"callError,omitempty"`
	Busy        bool              `json:"busy"`
	ActiveCall  CallKind          `json:"activeCall,omitempty"`
	SelectedID  string            `json:"selectedId,omitempty"`
	DetailID    string            `json:"detailId,omitempty"`
}

type Engine struct {
	reg        *registry.Registry
	calculator agent.Invoker
	processor  agent.Invoker
	log        *zap.Logger
	now        func() time.Time
	newID      func() string

	mu          sync.Mutex
	stage       Stage
	screen      Screen
	draft       loan.Draft
	offer       *loan.LoanOffer
	submission  *loan.Submission
	fieldErrors map[string]string
	callErr     string
	active      CallKind
	selectedID  string // application committed by the last calculation
	sourceID    string // application the draft was seeded from
	detailID    string
}

func New(reg *registry.Registry, calculator, processor agent.Invoker, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		reg:         reg,
		calculator:  calculator,
		processor:   processor,
		log:         log.Named("workflow"),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       id.NewApplicationID,
		stage:       StageStep1,
		screen:      ScreenDashboard,
		draft:       loan.NewDraft(),
		fieldErrors: map[string]string{},
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Engine) stateLocked() State {
	s := State{
		Stage:       e.stage,
		Step:        e.stage.Step(),
		Screen:      e.screen,
		Draft:       e.draft,
		FieldErrors: make(map[string]string, len(e.fieldErrors)),
		CallError:   e.callErr,
		Busy:        e.active != "",
		ActiveCall:  e.active,
		SelectedID:  e.selectedID,
		DetailID:    e.detailID,
	}
	for k, v := range e.fieldErrors {
		s.FieldErrors[k] = v
	}
	if e.offer != nil {
		o := *e.offer
		s.LoanOffer = &o
	}
	if e.submission != nil {
		sub := *e.submission
		s.Submission = &sub
	}
	return s
}

// editable reports whether the draft may change right now.
func (e *Engine) editable() error {
	if e.active != "" {
		return ErrBusy
	}
	if e.stage > StageStep5 {
		return ErrWrongStage
	}
	return nil
}

func (e *Engine) SetCustomer(c loan.Customer) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable(); err != nil {
		return err
	}
	e.draft.Customer = c
	return nil
}

func (e *Engine) SetVehicle(v loan.Vehicle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable(); err != nil {
		return err
	}
	if v.VehicleType == "" {
		v.VehicleType = loan.VehicleNew
	}
	e.draft.Vehicle = v
	return nil
}

func (e *Engine) SetFinancial(f loan.Financial) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable(); err != nil {
		return err
	}
	e.draft.Financial = f
	return nil
}

func (e *Engine) SetPreferences(p loan.LoanPreferences) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable(); err != nil {
		return err
	}
	e.draft.LoanPreferences = p
	return nil
}

// Advance validates the current step. On errors the stage is unchanged and
// the errors are returned; otherwise the wizard moves one step forward,
// stopping at the review step.
func (e *Engine) Advance() (map[string]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != "" {
		return nil, ErrBusy
	}
	to, ok := next(e.stage, actAdvance)
	if !ok {
		return nil, ErrWrongStage
	}
	errs := validation.ValidateDraft(e.stage.Step(), e.draft)
	e.fieldErrors = errs
	if len(errs) > 0 {
		return errs, nil
	}
	e.stage = to
	e.screen = ScreenWizard
	return errs, nil
}

// Retreat moves one step back without validating. From Offered it reopens
// the draft at step 1 for editing the committed application.
func (e *Engine) Retreat() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != "" {
		return ErrBusy
	}
	to, ok := next(e.stage, actRetreat)
	if !ok {
		return ErrWrongStage
	}
	if e.stage == StageOffered {
		e.sourceID = e.selectedID
		e.selectedID = ""
		e.offer = nil
	}
	e.stage = to
	e.screen = ScreenWizard
	e.fieldErrors = map[string]string{}
	return nil
}

// ResetDraft starts a new application.
func (e *Engine) ResetDraft() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != "" {
		return ErrBusy
	}
	e.resetLocked()
	e.screen = ScreenWizard
	return nil
}

func (e *Engine) resetLocked() {
	e.stage = StageStep1
	e.draft = loan.NewDraft()
	e.offer = nil
	e.submission = nil
	e.fieldErrors = map[string]string{}
	e.callErr = ""
	e.selectedID = ""
	e.sourceID = ""
}

// Edit seeds a fresh draft from a copy of a committed application.
func (e *Engine) Edit(appID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != "" {
		return ErrBusy
	}
	app, ok := e.reg.Get(appID)
	if !ok {
		return loan.ErrNotFound
	}
	e.resetLocked()
	e.draft = loan.DraftFrom(app)
	e.sourceID = app.ID
	e.screen = ScreenWizard
	return nil
}

// OpenDashboard leaves the wizard; the draft and any committed application
// are kept.
func (e *Engine) OpenDashboard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.screen = ScreenDashboard
	e.callErr = ""
}

func (e *Engine) OpenDetail(appID string) error {
	if _, ok := e.reg.Get(appID); !ok {
		return loan.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.screen = ScreenDetail
	e.detailID = appID
	e.callErr = ""
	return nil
}

// begin claims the single call slot for kind.
func (e *Engine) begin(kind CallKind, want action) error {
	if e.active != "" {
		return ErrBusy
	}
	if _, ok := next(e.stage, want); !ok {
		return ErrWrongStage
	}
	e.active = kind
	e.callErr = ""
	metrics.CallsInFlight.Set(1)
	return nil
}

func (e *Engine) end() {
	e.active = ""
	metrics.CallsInFlight.Set(0)
}

func (e *Engine) invoke(ctx context.Context, kind CallKind, inv agent.Invoker, req any) (map[string]any, *CallError) {
	start := time.Now()
	env, err := inv.Invoke(ctx, req)
	metrics.CollaboratorDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CollaboratorCalls.WithLabelValues(string(kind), string(ReasonTransport)).Inc()
		msg := err.Error()
		if msg == "" {
			msg = msgUnexpected
		}
		e.log.Warn("collaborator call failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, &CallError{Kind: kind, Reason: ReasonTransport, Message: msg, Err: err}
	}

	data, ok := extractResult(env)
	if !ok {
		metrics.CollaboratorCalls.WithLabelValues(string(kind), string(ReasonRejected)).Inc()
		msg := msgCalculateFailed
		if kind == CallSubmit {
			msg = msgSubmitFailed
		}
		if env != nil {
			switch {
			case env.Error != "":
				msg = env.Error
			case env.Response.Message != "":
				msg = env.Response.Message
			}
		}
		e.log.Info("collaborator rejected request", zap.String("kind", string(kind)), zap.String("message", msg))
		return nil, &CallError{Kind: kind, Reason: ReasonRejected, Message: msg}
	}
	metrics.CollaboratorCalls.WithLabelValues(string(kind), "ok").Inc()
	return data, nil
}

// Calculate sends the draft to the loan calculator. On success the offer is
// committed as a Calculated application and the wizard moves to Offered.
// On failure nothing is committed and the returned *CallError carries the
// message to show. A draft section that no longer validates yields a
// *StepError and the collaborator is not called.
func (e *Engine) Calculate(ctx context.Context) (loan.Application, error) {
	e.mu.Lock()
	if err := e.begin(CallCalculate, actCalculate); err != nil {
		e.mu.Unlock()
		return loan.Application{}, err
	}
	if err := e.recheckLocked(); err != nil {
		e.end()
		e.mu.Unlock()
		return loan.Application{}, err
	}
	draft := e.draft
	sourceID := e.sourceID
	e.mu.Unlock()

	data, callErr := e.invoke(ctx, CallCalculate, e.calculator, newCalculationRequest(draft))

	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.end()
	if callErr != nil {
		e.callErr = callErr.Message
		return loan.Application{}, callErr
	}

	offer := buildOffer(data, draft, e.log)
	app := e.commitOffer(ctx, draft, offer, sourceID)

	e.offer = &offer
	e.submission = nil
	e.selectedID = app.ID
	e.sourceID = ""
	e.fieldErrors = map[string]string{}
	e.stage = StageOffered
	e.screen = ScreenWizard
	return app, nil
}

// recheckLocked validates every collection step again, since a section can
// be replaced after its step was passed. On failure the wizard returns to
// the first failing step with its field errors.
func (e *Engine) recheckLocked() error {
	for step := validation.StepCustomer; step <= validation.StepPreferences; step++ {
		errs := validation.ValidateDraft(step, e.draft)
		if len(errs) == 0 {
			continue
		}
		e.stage = Stage(step)
		e.screen = ScreenWizard
		e.fieldErrors = errs
		return &StepError{Step: step, Fields: maps.Clone(errs)}
	}
	return nil
}

// commitOffer updates the source application when it has not been
// submitted yet, and otherwise adds a new one.
func (e *Engine) commitOffer(ctx context.Context, d loan.Draft, offer loan.LoanOffer, sourceID string) loan.Application {
	now := e.now()
	if sourceID != "" {
		if src, ok := e.reg.Get(sourceID); ok && src.Status.Rank() <= loan.StatusCalculated.Rank() {
			var out loan.Application
			found, err := e.reg.Update(ctx, sourceID, func(a *loan.Application) {
				a.Customer = d.Customer
				a.Vehicle = d.Vehicle
				a.Financial = d.Financial
				a.LoanPreferences = d.LoanPreferences
				o := offer
				a.LoanOffer = &o
				a.Status = loan.StatusCalculated
				a.UpdatedAt = now
				out = a.Clone()
			})
			if err != nil {
				e.log.Error("recalculated application not persisted", zap.String("id", sourceID), zap.Error(err))
			}
			if found {
				return out
			}
		}
	}

	o := offer
	app := loan.Application{
		ID:              e.newID(),
		Customer:        d.Customer,
		Vehicle:         d.Vehicle,
		Financial:       d.Financial,
		LoanPreferences: d.LoanPreferences,
		LoanOffer:       &o,
		Status:          loan.StatusCalculated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := e.reg.Add(ctx, app); err != nil {
		e.log.Error("calculated application not persisted", zap.String("id", app.ID), zap.Error(err))
	}
	e.log.Info("application calculated", zap.String("id", app.ID), zap.String("eligibility", offer.EligibilityStatus))
	return app
}

// Submit sends the draft and its offer to the loan processor. On success the
// committed application gains the submission and moves to Submitted.
func (e *Engine) Submit(ctx context.Context) (loan.Application, error) {
	e.mu.Lock()
	if e.active == "" && e.stage == StageOffered && e.offer == nil {
		e.mu.Unlock()
		return loan.Application{}, ErrNoOffer
	}
	if err := e.begin(CallSubmit, actSubmit); err != nil {
		e.mu.Unlock()
		return loan.Application{}, err
	}
	if _, ok := e.reg.Get(e.selectedID); !ok {
		e.end()
		e.mu.Unlock()
		return loan.Application{}, loan.ErrNotFound
	}
	draft := e.draft
	offer := *e.offer
	appID := e.selectedID
	e.mu.Unlock()

	data, callErr := e.invoke(ctx, CallSubmit, e.processor, newProcessingRequest(draft, offer))

	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.end()
	if callErr != nil {
		e.callErr = callErr.Message
		return loan.Application{}, callErr
	}

	now := e.now()
	sub := buildSubmission(data, draft, offer, now, e.log)

	var out loan.Application
	found, err := e.reg.Update(ctx, appID, func(a *loan.Application) {
		s := sub
		a.Submission = &s
		if a.Status.Rank() < loan.StatusSubmitted.Rank() {
			a.Status = loan.StatusSubmitted
		}
		a.UpdatedAt = now
		out = a.Clone()
	})
	if !found {
		e.log.Warn("submitted application missing from registry", zap.String("id", appID))
		return loan.Application{}, loan.ErrNotFound
	}
	if err != nil {
		e.log.Error("submission not persisted", zap.String("id", appID), zap.Error(err))
	}

	e.submission = &sub
	e.stage = StageSubmitted
	e.screen = ScreenConfirmation
	e.log.Info("application submitted", zap.String("id", appID), zap.String("reference", sub.ApplicationReferenceID))
	return out, nil
}
