package plot

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/silvacore/patrimony/modules/forestry/domain/entities/geometry"
	"github.com/silvacore/patrimony/pkg/constants"
	"github.com/silvacore/patrimony/pkg/serrors"
)

type CreateDTO struct {
	StandID    uuid.UUID `json:"standId" validate:"required"`
	Code       string    `json:"code" validate:"required,min=1,max=80"`
	Name       string    `json:"name" validate:"required,min=2,max=255"`
	Type       string    `json:"type" validate:"required,oneof=REFERENCE SUBUNIT SUBPLOT SAMPLE SUBSAMPLE"`
	ShapeType  string    `json:"shapeType" validate:"required,oneof=RECTANGULAR SQUARE CIRCULAR HEXAGONAL"`
	Dimension1 *float64  `json:"dimension1" validate:"omitempty,gte=0"`
	Dimension2 *float64  `json:"dimension2" validate:"omitempty,gte=0"`
	Dimension3 *float64  `json:"dimension3" validate:"omitempty,gte=0"`
	Dimension4 *float64  `json:"dimension4" validate:"omitempty,gte=0"`
	Latitude   *float64  `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64  `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	IsActive   *bool     `json:"isActive"`
}

func localeKey(field string) string {
	return "Forestry.Plots.Single." + field
}

func (d *CreateDTO) Normalize() {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Name = strings.TrimSpace(d.Name)
	d.Type = strings.ToUpper(strings.TrimSpace(d.Type))
	d.ShapeType = strings.ToUpper(strings.TrimSpace(d.ShapeType))
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

func (d *CreateDTO) Dimensions() geometry.Dimensions {
	return geometry.Dimensions{
		D1: d.Dimension1,
		D2: d.Dimension2,
		D3: d.Dimension3,
		D4: d.Dimension4,
	}
}

// ToEntity builds the plot without its derived area; the service computes
// AreaM2 via the geometry calculator before handing it to the repository.
func (d *CreateDTO) ToEntity() Plot {
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	now := time.Now()
	return Plot{
		ID:         uuid.New(),
		StandID:    d.StandID,
		Code:       d.Code,
		Name:       d.Name,
		Type:       Type(d.Type),
		ShapeType:  geometry.Shape(d.ShapeType),
		Dimension1: d.Dimension1,
		Dimension2: d.Dimension2,
		Dimension3: d.Dimension3,
		Dimension4: d.Dimension4,
		Latitude:   d.Latitude,
		Longitude:  d.Longitude,
		IsActive:   active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// UpdateDTO is a partial patch; nil fields keep their current value. The
// owning stand is immutable after creation, and AreaM2 is never accepted.
type UpdateDTO struct {
	Name       *string  `json:"name" validate:"omitempty,min=2,max=255"`
	Type       *string  `json:"type" validate:"omitempty,oneof=REFERENCE SUBUNIT SUBPLOT SAMPLE SUBSAMPLE"`
	ShapeType  *string  `json:"shapeType" validate:"omitempty,oneof=RECTANGULAR SQUARE CIRCULAR HEXAGONAL"`
	Dimension1 *float64 `json:"dimension1" validate:"omitempty,gte=0"`
	Dimension2 *float64 `json:"dimension2" validate:"omitempty,gte=0"`
	Dimension3 *float64 `json:"dimension3" validate:"omitempty,gte=0"`
	Dimension4 *float64 `json:"dimension4" validate:"omitempty,gte=0"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	IsActive   *bool    `json:"isActive"`
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
	if d.ShapeType != nil {
		upper := strings.ToUpper(strings.TrimSpace(*d.ShapeType))
		d.ShapeType = &upper
	}
}

func (d *UpdateDTO) IsEmpty() bool {
	return d.Name == nil &&
		d.Type == nil &&
		d.ShapeType == nil &&
		d.Dimension1 == nil &&
		d.Dimension2 == nil &&
		d.Dimension3 == nil &&
		d.Dimension4 == nil &&
		d.Latitude == nil &&
		d.Longitude == nil &&
		d.IsActive == nil
}

// TouchesGeometry reports whether the patch changes any input of the area
// derivation, which forces a recompute over the merged view.
func (d *UpdateDTO) TouchesGeometry() bool {
	return d.ShapeType != nil ||
		d.Dimension1 != nil ||
		d.Dimension2 != nil ||
		d.Dimension3 != nil ||
		d.Dimension4 != nil
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

// Apply merges the patch into the current entity. The caller recomputes
// AreaM2 from the merged view when TouchesGeometry reports true.
func (d *UpdateDTO) Apply(current Plot) Plot {
	if d.Name != nil {
		current.Name = *d.Name
	}
	if d.Type != nil {
		current.Type = Type(*d.Type)
	}
	if d.ShapeType != nil {
		current.ShapeType = geometry.Shape(*d.ShapeType)
	}
	if d.Dimension1 != nil {
		current.Dimension1 = d.Dimension1
	}
	if d.Dimension2 != nil {
		current.Dimension2 = d.Dimension2
	}
	if d.Dimension3 != nil {
		current.Dimension3 = d.Dimension3
	}
	if d.Dimension4 != nil {
		current.Dimension4 = d.Dimension4
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
