package services

// IntakeError is a submission failure carrying the canonical user-facing
// message and the HTTP status the handler should return. Client errors
// (bad input) use 400, configuration and transport failures use 500.
type IntakeError struct {
	Status  int
	Message string
	Err     error // underlying cause, logged but never shown to the caller
}

func (e *IntakeError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *IntakeError) Unwrap() error {
	return e.Err
}
