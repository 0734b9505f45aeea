package models

import (
	"time"

	"github.com/google/uuid"
)

// Numeric columns are selected as ::text and kept as strings here; the
// mappers convert them to decimals so no float rounding sneaks in.

type Estate struct {
	ID             uuid.UUID
	OrganizationID *uuid.UUID
	Code           string
	Name           string
	Type           string
	LegalStatus    string
	TotalAreaHa    string
	Latitude       *float64
	Longitude      *float64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Compartment struct {
	ID          uuid.UUID
	EstateID    uuid.UUID
	EstateCode  string
	EstateName  string
	Code        string
	Name        string
	Type        string
	TotalAreaHa string
	Latitude    *float64
	Longitude   *float64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Stand struct {
	ID              uuid.UUID
	CompartmentID   uuid.UUID
	CompartmentCode string
	CompartmentName string
	Code            string
	Name            string
	Type            string
	TotalAreaHa     string
	PlantableAreaHa string
	RotationPhase   string
	Latitude        *float64
	Longitude       *float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Plot struct {
	ID         uuid.UUID
	StandID    uuid.UUID
	StandCode  string
	StandName  string
	Code       string
	Name       string
	Type       string
	ShapeType  string
	Dimension1 *float64
	Dimension2 *float64
	Dimension3 *float64
	Dimension4 *float64
	AreaM2     string
	Latitude   *float64
	Longitude  *float64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type LeafAsset struct {
	ID                 uuid.UUID
	StandID            uuid.UUID
	BiologicalAssetKey string
	SpeciesCode        string
	PlantedYear        *int
	Quantity           *int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
