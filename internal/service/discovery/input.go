package discovery

import "github.com/heartmarshall/alumni-network-backend/internal/domain"

// SuggestInput holds parameters for Suggest. Empty Roles means every
// network member role.
type SuggestInput struct {
	Roles []domain.UserRole
	Limit int
}

// Validate checks all fields and collects all errors.
func (i SuggestInput) Validate() error {
	var errs []domain.FieldError

	for _, r := range i.Roles {
		if !r.IsNetworkMember() {
			errs = append(errs, domain.FieldError{Field: "role", Message: "must be ALUMNI or STUDENT"})
			break
		}
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
