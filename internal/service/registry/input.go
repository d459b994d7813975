package registry

import (
	"strings"

	"github.com/meadowmind/carematch-backend/internal/domain"
)

// CreateClientInput holds the parameters for registering a client.
type CreateClientInput struct {
	Name     string
	Email    *string
	Phone    *string
	Address  domain.Address
	Priority domain.Priority
}

// Validate checks all fields and collects all errors.
func (i CreateClientInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(i.Name) > 200 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
	}
	if strings.TrimSpace(i.Address.Line1) == "" {
		errs = append(errs, domain.FieldError{Field: "address.line1", Message: "required"})
	}
	if i.Priority != "" && !i.Priority.IsValid() {
		errs = append(errs, domain.FieldError{Field: "priority", Message: "must be LOW, MEDIUM or HIGH"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreateTherapistInput holds the parameters for registering a therapist.
type CreateTherapistInput struct {
	Name            string
	Email           *string
	Phone           *string
	Address         domain.Address
	Availability    string
	Specializations []string
}

// Validate checks all fields and collects all errors.
func (i CreateTherapistInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(i.Name) > 200 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
	}
	if strings.TrimSpace(i.Address.Line1) == "" {
		errs = append(errs, domain.FieldError{Field: "address.line1", Message: "required"})
	}
	for _, spec := range i.Specializations {
		if strings.TrimSpace(spec) == "" {
			errs = append(errs, domain.FieldError{Field: "specializations", Message: "entries must not be blank"})
			break
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
