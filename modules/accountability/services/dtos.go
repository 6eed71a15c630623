package services

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/convocation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/municipality"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/presentation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// check validates d and converts the first failing field into a
// *serrors.ValidationError.
func check(entity string, d any) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return serrors.NewValidationError(entity, "", err.Error())
	}
	fe := errs[0]
	constraint := fe.Tag()
	if fe.Param() != "" {
		constraint += "=" + fe.Param()
	}
	return serrors.NewValidationError(entity, fe.Field(), constraint)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

type BootstrapDTO struct {
	ID     string `json:"id" validate:"required,max=10"`
	Name   string `json:"name" validate:"required,max=100"`
	Secret string `json:"secret" validate:"required,min=4"`
}

func (d *BootstrapDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
}

func (d *BootstrapDTO) Ok() error {
	d.Normalize()
	return check(user.EntityName, d)
}

type CreateUserDTO struct {
	ID     string `json:"id" validate:"required,max=10"`
	Name   string `json:"name" validate:"required,max=100"`
	Secret string `json:"secret" validate:"required,min=4"`
	Role   string `json:"role" validate:"required,oneof=administrator general_auditor auditor treasurer"`
}

func (d *CreateUserDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	d.Role = strings.ToLower(strings.TrimSpace(d.Role))
}

func (d *CreateUserDTO) Ok() error {
	d.Normalize()
	return check(user.EntityName, d)
}

// UpdateUserDTO carries the fields an update_any holder may change. Nil
// fields are left alone.
type UpdateUserDTO struct {
	Name   *string `json:"name" validate:"omitempty,max=100"`
	Secret *string `json:"secret" validate:"omitempty,min=4"`
	Role   *string `json:"role" validate:"omitempty,oneof=administrator general_auditor auditor treasurer"`
}

func (d *UpdateUserDTO) Normalize() {
	trimPtr(d.Name)
	if d.Role != nil {
		*d.Role = strings.ToLower(strings.TrimSpace(*d.Role))
	}
}

func (d *UpdateUserDTO) Ok() error {
	d.Normalize()
	if d.Name != nil && *d.Name == "" {
		return serrors.NewValidationError(user.EntityName, "name", "required")
	}
	return check(user.EntityName, d)
}

type UpdateProfileDTO struct {
	Name   *string `json:"name" validate:"omitempty,max=100"`
	Secret *string `json:"secret" validate:"omitempty,min=4"`
}

func (d *UpdateProfileDTO) Normalize() {
	trimPtr(d.Name)
}

func (d *UpdateProfileDTO) Ok() error {
	d.Normalize()
	if d.Name != nil && *d.Name == "" {
		return serrors.NewValidationError(user.EntityName, "name", "required")
	}
	return check(user.EntityName, d)
}

type CreateMunicipalityDTO struct {
	ID       string `json:"id" validate:"required,max=30"`
	Name     string `json:"name" validate:"required,max=100"`
	Category int    `json:"category" validate:"gte=0"`
}

func (d *CreateMunicipalityDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
}

func (d *CreateMunicipalityDTO) Ok() error {
	d.Normalize()
	return check(municipality.EntityName, d)
}

type UpdateMunicipalityDTO struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Category *int    `json:"category" validate:"omitempty,gte=0"`
}

func (d *UpdateMunicipalityDTO) Normalize() {
	trimPtr(d.Name)
}

func (d *UpdateMunicipalityDTO) Ok() error {
	d.Normalize()
	if d.Name != nil && *d.Name == "" {
		return serrors.NewValidationError(municipality.EntityName, "name", "required")
	}
	if d.Category != nil && *d.Category < 0 {
		return serrors.NewValidationError(municipality.EntityName, "category", "gte=0")
	}
	return check(municipality.EntityName, d)
}

type CreateConvocationDTO struct {
	ID                string    `json:"id" validate:"required,max=100"`
	OpeningDate       time.Time `json:"opening_date"`
	ClosingDate       time.Time `json:"closing_date" validate:"gtefield=OpeningDate"`
	Description       string    `json:"description" validate:"max=2000"`
	RequiredDocuments []string  `json:"required_documents" validate:"dive,required"`
}

func (d *CreateConvocationDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Description = strings.TrimSpace(d.Description)
	for i := range d.RequiredDocuments {
		d.RequiredDocuments[i] = strings.TrimSpace(d.RequiredDocuments[i])
	}
}

func (d *CreateConvocationDTO) Ok() error {
	d.Normalize()
	if d.OpeningDate.IsZero() {
		return serrors.NewValidationError(convocation.EntityName, "opening_date", "required")
	}
	if d.ClosingDate.IsZero() {
		return serrors.NewValidationError(convocation.EntityName, "closing_date", "required")
	}
	return check(convocation.EntityName, d)
}

type UpdateConvocationDTO struct {
	OpeningDate *time.Time `json:"opening_date"`
	ClosingDate *time.Time `json:"closing_date"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
}

func (d *UpdateConvocationDTO) Normalize() {
	trimPtr(d.Description)
}

func (d *UpdateConvocationDTO) Ok() error {
	d.Normalize()
	if d.OpeningDate != nil && d.OpeningDate.IsZero() {
		return serrors.NewValidationError(convocation.EntityName, "opening_date", "required")
	}
	if d.ClosingDate != nil && d.ClosingDate.IsZero() {
		return serrors.NewValidationError(convocation.EntityName, "closing_date", "required")
	}
	return check(convocation.EntityName, d)
}

type CreatePresentationDTO struct {
	ID            string `json:"id" validate:"required,max=100"`
	ConvocationID string `json:"convocation_id" validate:"required,max=100"`
}

func (d *CreatePresentationDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.ConvocationID = strings.TrimSpace(d.ConvocationID)
}

func (d *CreatePresentationDTO) Ok() error {
	d.Normalize()
	return check(presentation.EntityName, d)
}
