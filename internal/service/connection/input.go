package connection

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
)

// SendRequestInput holds the parameters for sending a connection request.
// The requester is the authenticated user.
type SendRequestInput struct {
	RecipientID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i SendRequestInput) Validate() error {
	if i.RecipientID == uuid.Nil {
		return domain.NewValidationError("recipient_id", "required")
	}
	return nil
}

// DecideRequestInput holds the parameters for accepting or rejecting a request.
type DecideRequestInput struct {
	ConnectionID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DecideRequestInput) Validate() error {
	if i.ConnectionID == uuid.Nil {
		return domain.NewValidationError("connection_id", "required")
	}
	return nil
}

// ListInput holds the parameters for listing the caller's connections.
type ListInput struct {
	Role   domain.ConnectionRole
	Limit  int
	Cursor string
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError
	if !i.Role.IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "must be one of ACCEPTED, SENT_PENDING, RECEIVED_PENDING"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be >= 0"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
