package manuscript

import "fmt"

type CustomerStatus string

const (
	CustomerApplied      CustomerStatus = "applied"
	CustomerInterviewing CustomerStatus = "interviewing"
	CustomerWriting      CustomerStatus = "writing"
	CustomerReviewing    CustomerStatus = "reviewing"
	CustomerDelivered    CustomerStatus = "delivered"
)

var customerRank = map[CustomerStatus]int{
	CustomerApplied:      0,
	CustomerInterviewing: 1,
	CustomerWriting:      2,
	CustomerReviewing:    3,
	CustomerDelivered:    4,
}

func (s CustomerStatus) Valid() bool {
	_, ok := customerRank[s]
	return ok
}

type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "scheduled"
	InterviewCompleted InterviewStatus = "completed"
	InterviewFailed    InterviewStatus = "failed"
)

// Status is the lifecycle of one chapter manuscript:
// draft -> checked -> approved. Regeneration returns to draft from any state.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusChecked  Status = "checked"
	StatusApproved Status = "approved"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusChecked || s == StatusApproved
}

// HasRiskCheck reports whether a manuscript in this status carries a risk
// check result. Checked and approved manuscripts do; drafts never do.
func (s Status) HasRiskCheck() bool {
	return s == StatusChecked || s == StatusApproved
}

// Deliverable reports whether the chapter may appear in the delivered PDF.
func (s Status) Deliverable() bool {
	return s.HasRiskCheck()
}

// CustomerEvent is a pipeline outcome that may move the customer forward.
type CustomerEvent string

const (
	EventChapterGenerated CustomerEvent = "chapter_generated"
	EventDelivered        CustomerEvent = "delivered"
)

// eventTarget is the transition table. The customer moves to the target
// status unless already further along; status never moves backward.
//
//	event              | applied  interviewing writing  reviewing delivered
//	chapter_generated  | writing  writing      writing  reviewing delivered
//	delivered          | delivered for every source status
var eventTarget = map[CustomerEvent]CustomerStatus{
	EventChapterGenerated: CustomerWriting,
	EventDelivered:        CustomerDelivered,
}

// NextCustomerStatus applies event to current and returns the new status.
func NextCustomerStatus(current CustomerStatus, event CustomerEvent) (CustomerStatus, error) {
	target, ok := eventTarget[event]
	if !ok {
		return current, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	rank, ok := customerRank[current]
	if !ok {
		// Unknown stored values are repaired to the event's target.
		return target, nil
	}
	if rank >= customerRank[target] {
		return current, nil
	}
	return target, nil
}

// CheckRiskCheckable validates that a risk check may run on a manuscript.
func CheckRiskCheckable(status Status, rawContent string) error {
	if rawContent == "" {
		return ErrNoRawContent
	}
	if status == StatusApproved {
		return ErrNotCheckable
	}
	return nil
}

func CheckApprovable(status Status) error {
	if status != StatusChecked {
		return fmt.Errorf("%w: status is %s", ErrNotApprovable, status)
	}
	return nil
}
