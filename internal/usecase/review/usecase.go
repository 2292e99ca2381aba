// Package review moves submitted applications through the back-office
// decision: Submitted → Under Review → Approved | Rejected.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainLoan "vehicleloan/internal/domain/loan"
	"vehicleloan/internal/usecase/registry"
)

// ErrNotPersisted marks a transition that was applied in memory but could
// not be written to the store. Transition returns the DTO alongside it.
var ErrNotPersisted = errors.New("review transition not persisted")

type Usecase struct {
	reg *registry.Registry
	log *zap.Logger
	now func() time.Time
}

func NewUsecase(reg *registry.Registry, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{reg: reg, log: log.Named("review"), now: func() time.Time { return time.Now().UTC() }}
}

// allowed reports whether from may move to to.
func allowed(from, to domainLoan.Status) bool {
	switch to {
	case domainLoan.StatusUnderReview:
		return from == domainLoan.StatusSubmitted
	case domainLoan.StatusApproved, domainLoan.StatusRejected:
		return from == domainLoan.StatusSubmitted || from == domainLoan.StatusUnderReview
	}
	return false
}

func (u *Usecase) Transition(ctx context.Context, in TransitionInput) (*TransitionDTO, error) {
	if !in.To.Valid() {
		return nil, domainLoan.ErrInvalidTransition
	}
	var dto *TransitionDTO

	_, err := u.reg.Apply(ctx, in.ApplicationID, func(a *domainLoan.Application) error {
		// State guard: a decided application stays decided
		if a.Status.Resolved() {
			return domainLoan.ErrAlreadyResolved
		}
		if !allowed(a.Status, in.To) {
			return domainLoan.ErrInvalidTransition
		}
		from := a.Status
		a.Status = in.To
		a.UpdatedAt = u.now()

		dto = &TransitionDTO{
			ApplicationID: a.ID,
			From:          from,
			To:            a.Status,
			UpdatedAt:     a.UpdatedAt,
		}
		return nil
	})
	if err != nil && dto == nil {
		return nil, err
	}
	if err != nil {
		// applied in memory; only the write-through failed
		u.log.Error("review transition not persisted", zap.String("id", in.ApplicationID), zap.Error(err))
		return dto, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	u.log.Info("review transition", zap.String("id", dto.ApplicationID), zap.String("from", string(dto.From)), zap.String("to", string(dto.To)))
	return dto, nil
}
