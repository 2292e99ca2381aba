package workflow

import (
	"errors"
	"fmt"
)

// Stage is the wizard position. Step1..Step5 collect and review data,
// Offered follows a successful calculation, Submitted ends the instance.
type Stage int

const (
	StageStep1 Stage = iota + 1
	StageStep2
	StageStep3
	StageStep4
	StageStep5
	StageOffered
	StageSubmitted
)

var stageNames = map[Stage]string{
	StageStep1:     "step1",
	StageStep2:     "step2",
	StageStep3:     "step3",
	StageStep4:     "step4",
	StageStep5:     "review",
	StageOffered:   "offered",
	StageSubmitted: "submitted",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Stage) UnmarshalText(b []byte) error {
	for k, v := range stageNames {
		if v == string(b) {
			*s = k
			return nil
		}
	}
	return errors.New("unknown stage " + string(b))
}

// Step returns the 1-based wizard step, or 0 outside the collection steps.
func (s Stage) Step() int {
	if s >= StageStep1 && s <= StageStep5 {
		return int(s)
	}
	return 0
}

// Screen is navigation outside the linear wizard.
type Screen string

const (
	ScreenDashboard    Screen = "dashboard"
	ScreenWizard       Screen = "wizard"
	ScreenDetail       Screen = "detail"
	ScreenConfirmation Screen = "confirmation"
)

type action string

const (
	actAdvance   action = "advance"
	actRetreat   action = "retreat"
	actCalculate action = "calculate"
	actSubmit    action = "submit"
)

// transitions lists every legal move; reset and edit go to StageStep1 from
// anywhere and are handled separately.
var transitions = map[Stage]map[action]Stage{
	StageStep1:     {actAdvance: StageStep2, actRetreat: StageStep1},
	StageStep2:     {actAdvance: StageStep3, actRetreat: StageStep1},
	StageStep3:     {actAdvance: StageStep4, actRetreat: StageStep2},
	StageStep4:     {actAdvance: StageStep5, actRetreat: StageStep3},
	StageStep5:     {actAdvance: StageStep5, actRetreat: StageStep4, actCalculate: StageOffered},
	StageOffered:   {actRetreat: StageStep1, actSubmit: StageSubmitted},
	StageSubmitted: {},
}

func next(from Stage, a action) (Stage, bool) {
	to, ok := transitions[from][a]
	return to, ok
}
