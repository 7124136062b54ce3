package manuscript

import "lifestory/internal/errs"

var (
	ErrInvalidChapter    = errs.New(errs.KindValidation, "invalid chapter number")
	ErrInvalidSession    = errs.New(errs.KindValidation, "invalid session number")
	ErrNoTranscripts     = errs.New(errs.KindValidation, "at least one transcript is required")
	ErrInvalidCategory   = errs.New(errs.KindValidation, "invalid risk-check category")
	ErrUnknownEvent      = errs.New(errs.KindValidation, "unknown customer event")
	ErrNoRawContent      = errs.New(errs.KindPrecondition, "manuscript has no generated content")
	ErrNotCheckable      = errs.New(errs.KindPrecondition, "approved manuscripts cannot be risk-checked again")
	ErrNotApprovable     = errs.New(errs.KindPrecondition, "only checked manuscripts can be approved")
	ErrNothingToDeliver  = errs.New(errs.KindPrecondition, "no risk-checked manuscripts to deliver")
	ErrStaleManuscript   = errs.New(errs.KindConflict, "manuscript content changed during risk check")
	ErrCustomerNotFound  = errs.New(errs.KindNotFound, "customer not found")
	ErrManuscriptMissing = errs.New(errs.KindNotFound, "manuscript not found")
)
