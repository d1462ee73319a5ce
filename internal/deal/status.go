package deal

import "fmt"

// Status is a deal lifecycle stage as reported by the deal registry.
type Status string

const (
	StatusDraft                    Status = "DRAFT"
	StatusNew                      Status = "NEW"
	StatusDocumentsCollection      Status = "DOCUMENTS_COLLECTION"
	StatusDocumentsVerification    Status = "DOCUMENTS_VERIFICATION"
	StatusSigning                  Status = "SIGNING"
	StatusPayment                  Status = "PAYMENT"
	StatusRegistration             Status = "REGISTRATION"
	StatusRegistrationConfirmation Status = "REGISTRATION_CONFIRMATION"
	StatusFundsRelease             Status = "FUNDS_RELEASE"
	StatusCompleted                Status = "COMPLETED"
)

// chronology is the fixed lifecycle order. Position is the slice index.
var chronology = []Status{
	StatusDraft,
	StatusNew,
	StatusDocumentsCollection,
	StatusDocumentsVerification,
	StatusSigning,
	StatusPayment,
	StatusRegistration,
	StatusRegistrationConfirmation,
	StatusFundsRelease,
	StatusCompleted,
}

var positions = func() map[Status]int {
	m := make(map[Status]int, len(chronology))
	for i, s := range chronology {
		m[s] = i
	}
	return m
}()

// CheckpointFullCheck is the earliest status at which a full compliance check may run.
const CheckpointFullCheck = StatusRegistrationConfirmation

// Statuses returns the lifecycle in chronological order.
func Statuses() []Status {
	out := make([]Status, len(chronology))
	copy(out, chronology)
	return out
}

// ParseStatus validates a raw registry value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := positions[s]; !ok {
		return "", &UnknownStatusError{Status: raw}
	}
	return s, nil
}

func (s Status) String() string {
	return string(s)
}

// Position returns the ordinal of s in the lifecycle.
func Position(s Status) (int, error) {
	pos, ok := positions[s]
	if !ok {
		return 0, &UnknownStatusError{Status: string(s)}
	}
	return pos, nil
}

// AtOrPast reports whether status has reached or passed checkpoint. Either
// value being outside the lifecycle is a configuration error, never "not reached".
func AtOrPast(status, checkpoint Status) (bool, error) {
	statusPos, err := Position(status)
	if err != nil {
		return false, err
	}
	checkpointPos, err := Position(checkpoint)
	if err != nil {
		return false, err
	}
	return statusPos >= checkpointPos, nil
}

// Guard asserts the deal has reached checkpoint.
func Guard(dealID string, status, checkpoint Status) error {
	ok, err := AtOrPast(status, checkpoint)
	if err != nil {
		return fmt.Errorf("guard deal %s: %w", dealID, err)
	}
	if !ok {
		return &PreconditionFailedError{
			DealID:         dealID,
			RequiredStatus: checkpoint,
			ActualStatus:   status,
		}
	}
	return nil
}

// Label is the coarse suitability label shown to reviewers.
type Label string

const (
	LabelSuitable Label = "SUITABLE"
	LabelInvalid  Label = "INVALID"
)

// LabelFor marks only deals exactly at REGISTRATION_CONFIRMATION as suitable.
// Deals past the checkpoint still pass Guard but are labelled INVALID; the
// product owners have not yet decided whether that is intended.
func LabelFor(s Status) Label {
	if s == StatusRegistrationConfirmation {
		return LabelSuitable
	}
	return LabelInvalid
}
