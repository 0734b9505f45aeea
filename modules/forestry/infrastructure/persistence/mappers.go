package persistence

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/compartment"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/estate"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/plot"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/stand"
	"github.com/silvacore/patrimony/modules/forestry/domain/entities/geometry"
	"github.com/silvacore/patrimony/modules/forestry/domain/entities/leafasset"
	"github.com/silvacore/patrimony/modules/forestry/infrastructure/persistence/models"
)

func parseDecimal(raw, column string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse %s", column)
	}
	return d, nil
}

func toDomainEstate(row *models.Estate) (estate.Estate, error) {
	area, err := parseDecimal(row.TotalAreaHa, "estates.total_area_ha")
	if err != nil {
		return estate.Estate{}, err
	}
	return estate.Estate{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		Code:           row.Code,
		Name:           row.Name,
		Type:           estate.Type(row.Type),
		LegalStatus:    estate.LegalStatus(row.LegalStatus),
		TotalAreaHa:    area,
		Latitude:       row.Latitude,
		Longitude:      row.Longitude,
		IsActive:       row.IsActive,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

func toDBEstate(entity estate.Estate) *models.Estate {
	return &models.Estate{
		ID:             entity.ID,
		OrganizationID: entity.OrganizationID,
		Code:           entity.Code,
		Name:           entity.Name,
		Type:           string(entity.Type),
		LegalStatus:    string(entity.LegalStatus),
		TotalAreaHa:    entity.TotalAreaHa.String(),
		Latitude:       entity.Latitude,
		Longitude:      entity.Longitude,
		IsActive:       entity.IsActive,
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
	}
}

func toDomainCompartment(row *models.Compartment) (compartment.Compartment, error) {
	area, err := parseDecimal(row.TotalAreaHa, "compartments.total_area_ha")
	if err != nil {
		return compartment.Compartment{}, err
	}
	return compartment.Compartment{
		ID:       row.ID,
		EstateID: row.EstateID,
		Estate: compartment.ParentSummary{
			ID:   row.EstateID,
			Code: row.EstateCode,
			Name: row.EstateName,
		},
		Code:        row.Code,
		Name:        row.Name,
		Type:        compartment.Type(row.Type),
		TotalAreaHa: area,
		Latitude:    row.Latitude,
		Longitude:   row.Longitude,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func toDBCompartment(entity compartment.Compartment) *models.Compartment {
	return &models.Compartment{
		ID:          entity.ID,
		EstateID:    entity.EstateID,
		Code:        entity.Code,
		Name:        entity.Name,
		Type:        string(entity.Type),
		TotalAreaHa: entity.TotalAreaHa.String(),
		Latitude:    entity.Latitude,
		Longitude:   entity.Longitude,
		IsActive:    entity.IsActive,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func toDomainStand(row *models.Stand) (stand.Stand, error) {
	area, err := parseDecimal(row.TotalAreaHa, "stands.total_area_ha")
	if err != nil {
		return stand.Stand{}, err
	}
	plantable, err := parseDecimal(row.PlantableAreaHa, "stands.plantable_area_ha")
	if err != nil {
		return stand.Stand{}, err
	}
	return stand.Stand{
		ID:            row.ID,
		CompartmentID: row.CompartmentID,
		Compartment: stand.ParentSummary{
			ID:   row.CompartmentID,
			Code: row.CompartmentCode,
			Name: row.CompartmentName,
		},
		Code:            row.Code,
		Name:            row.Name,
		Type:            stand.Type(row.Type),
		TotalAreaHa:     area,
		PlantableAreaHa: plantable,
		RotationPhase:   stand.RotationPhase(row.RotationPhase),
		Latitude:        row.Latitude,
		Longitude:       row.Longitude,
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}

func toDBStand(entity stand.Stand) *models.Stand {
	return &models.Stand{
		ID:              entity.ID,
		CompartmentID:   entity.CompartmentID,
		Code:            entity.Code,
		Name:            entity.Name,
		Type:            string(entity.Type),
		TotalAreaHa:     entity.TotalAreaHa.String(),
		PlantableAreaHa: entity.PlantableAreaHa.String(),
		RotationPhase:   string(entity.RotationPhase),
		Latitude:        entity.Latitude,
		Longitude:       entity.Longitude,
		IsActive:        entity.IsActive,
		CreatedAt:       entity.CreatedAt,
		UpdatedAt:       entity.UpdatedAt,
	}
}

func toDomainPlot(row *models.Plot) (plot.Plot, error) {
	area, err := parseDecimal(row.AreaM2, "plots.area_m2")
	if err != nil {
		return plot.Plot{}, err
	}
	return plot.Plot{
		ID:      row.ID,
		StandID: row.StandID,
		Stand: plot.ParentSummary{
			ID:   row.StandID,
			Code: row.StandCode,
			Name: row.StandName,
		},
		Code:       row.Code,
		Name:       row.Name,
		Type:       plot.Type(row.Type),
		ShapeType:  geometry.Shape(row.ShapeType),
		Dimension1: row.Dimension1,
		Dimension2: row.Dimension2,
		Dimension3: row.Dimension3,
		Dimension4: row.Dimension4,
		AreaM2:     area,
		Latitude:   row.Latitude,
		Longitude:  row.Longitude,
		IsActive:   row.IsActive,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func toDBPlot(entity plot.Plot) *models.Plot {
	return &models.Plot{
		ID:         entity.ID,
		StandID:    entity.StandID,
		Code:       entity.Code,
		Name:       entity.Name,
		Type:       string(entity.Type),
		ShapeType:  string(entity.ShapeType),
		Dimension1: entity.Dimension1,
		Dimension2: entity.Dimension2,
		Dimension3: entity.Dimension3,
		Dimension4: entity.Dimension4,
		AreaM2:     entity.AreaM2.String(),
		Latitude:   entity.Latitude,
		Longitude:  entity.Longitude,
		IsActive:   entity.IsActive,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
	}
}

func toDomainLeafAsset(row *models.LeafAsset) leafasset.LeafAsset {
	return leafasset.LeafAsset{
		ID:                 row.ID,
		StandID:            row.StandID,
		BiologicalAssetKey: row.BiologicalAssetKey,
		SpeciesCode:        row.SpeciesCode,
		PlantedYear:        row.PlantedYear,
		Quantity:           row.Quantity,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}
