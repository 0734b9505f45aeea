package leafasset

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/silvacore/patrimony/pkg/constants"
	"github.com/silvacore/patrimony/pkg/serrors"
)

// UpsertDTO creates or overwrites the record keyed by (stand, asset key).
type UpsertDTO struct {
	StandID            uuid.UUID `json:"standId" validate:"required"`
	BiologicalAssetKey string    `json:"biologicalAssetKey" validate:"required,min=1,max=120"`
	SpeciesCode        string    `json:"speciesCode" validate:"omitempty,max=40"`
	PlantedYear        *int      `json:"plantedYear" validate:"omitempty,gte=1900,lte=2200"`
	Quantity           *int      `json:"quantity" validate:"omitempty,gte=0"`
}

func (d *UpsertDTO) Normalize() {
	d.BiologicalAssetKey = strings.TrimSpace(d.BiologicalAssetKey)
	d.SpeciesCode = strings.ToUpper(strings.TrimSpace(d.SpeciesCode))
}

func (d *UpsertDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	err := constants.Validate.Struct(d)
	if err == nil {
		return nil, true
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, false
	}
	return serrors.ProcessValidatorErrors(validationErrs, func(field string) string {
		return "Forestry.LeafAssets.Single." + field
	}), false
}

func (d *UpsertDTO) ToEntity() LeafAsset {
	return LeafAsset{
		StandID:            d.StandID,
		BiologicalAssetKey: d.BiologicalAssetKey,
		SpeciesCode:        d.SpeciesCode,
		PlantedYear:        d.PlantedYear,
		Quantity:           d.Quantity,
	}
}
