package stand

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silvacore/patrimony/pkg/constants"
	"github.com/silvacore/patrimony/pkg/serrors"
)

type CreateDTO struct {
	CompartmentID   uuid.UUID `json:"compartmentId" validate:"required"`
	Code            string    `json:"code" validate:"required,min=1,max=80"`
	Name            string    `json:"name" validate:"required,min=2,max=255"`
	Type            string    `json:"type" validate:"required,oneof=STAND PARCEL ENUMERATION MANAGEMENT_UNIT"`
	TotalAreaHa     float64   `json:"totalAreaHa" validate:"required,gt=0"`
	PlantableAreaHa float64   `json:"plantableAreaHa" validate:"gte=0"`
	RotationPhase   string    `json:"rotationPhase" validate:"required,oneof=ESTABLISHMENT GROWTH THINNING HARVEST REGENERATION"`
	Latitude        *float64  `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64  `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	IsActive        *bool     `json:"isActive"`
}

func localeKey(field string) string {
	return "Forestry.Stands.Single." + field
}

func (d *CreateDTO) Normalize() {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Name = strings.TrimSpace(d.Name)
	d.Type = strings.ToUpper(strings.TrimSpace(d.Type))
	d.RotationPhase = strings.ToUpper(strings.TrimSpace(d.RotationPhase))
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	err := constants.Validate.Struct(d)
	if err == nil {
		return nil, true
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, false
	}
	return serrors.ProcessValidatorErrors(validationErrs, localeKey), false
}

func (d *CreateDTO) ToEntity() Stand {
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	now := time.Now()
	return Stand{
		ID:              uuid.New(),
		CompartmentID:   d.CompartmentID,
		Code:            d.Code,
		Name:            d.Name,
		Type:            Type(d.Type),
		TotalAreaHa:     decimal.NewFromFloat(d.TotalAreaHa),
		PlantableAreaHa: decimal.NewFromFloat(d.PlantableAreaHa),
		RotationPhase:   RotationPhase(d.RotationPhase),
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		IsActive:        active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// UpdateDTO is a partial patch; nil fields keep their current value. The
// owning compartment is immutable after creation.
type UpdateDTO struct {
	Name            *string  `json:"name" validate:"omitempty,min=2,max=255"`
	Type            *string  `json:"type" validate:"omitempty,oneof=STAND PARCEL ENUMERATION MANAGEMENT_UNIT"`
	TotalAreaHa     *float64 `json:"totalAreaHa" validate:"omitempty,gt=0"`
	PlantableAreaHa *float64 `json:"plantableAreaHa" validate:"omitempty,gte=0"`
	RotationPhase   *string  `json:"rotationPhase" validate:"omitempty,oneof=ESTABLISHMENT GROWTH THINNING HARVEST REGENERATION"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	IsActive        *bool    `json:"isActive"`
}

func (d *UpdateDTO) Normalize() {
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
	}
	if d.Type != nil {
		upper := strings.ToUpper(strings.TrimSpace(*d.Type))
		d.Type = &upper
	}
	if d.RotationPhase != nil {
		upper := strings.ToUpper(strings.TrimSpace(*d.RotationPhase))
		d.RotationPhase = &upper
	}
}

func (d *UpdateDTO) IsEmpty() bool {
	return d.Name == nil &&
		d.Type == nil &&
		d.TotalAreaHa == nil &&
		d.PlantableAreaHa == nil &&
		d.RotationPhase == nil &&
		d.Latitude == nil &&
		d.Longitude == nil &&
		d.IsActive == nil
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	err := constants.Validate.Struct(d)
	if err == nil {
		return nil, true
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, false
	}
	return serrors.ProcessValidatorErrors(validationErrs, localeKey), false
}

func (d *UpdateDTO) Apply(current Stand) Stand {
	if d.Name != nil {
		current.Name = *d.Name
	}
	if d.Type != nil {
		current.Type = Type(*d.Type)
	}
	if d.TotalAreaHa != nil {
		current.TotalAreaHa = decimal.NewFromFloat(*d.TotalAreaHa)
	}
	if d.PlantableAreaHa != nil {
		current.PlantableAreaHa = decimal.NewFromFloat(*d.PlantableAreaHa)
	}
	if d.RotationPhase != nil {
		current.RotationPhase = RotationPhase(*d.RotationPhase)
	}
	if d.Latitude != nil {
		current.Latitude = d.Latitude
	}
	if d.Longitude != nil {
		current.Longitude = d.Longitude
	}
	if d.IsActive != nil {
		current.IsActive = *d.IsActive
	}
	current.UpdatedAt = time.Now()
	return current
}
