package viewmodels

import (
	"time"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/compartment"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/estate"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/plot"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/stand"
	"github.com/silvacore/patrimony/modules/forestry/domain/entities/leafasset"
)

type ParentRef struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Estate struct {
	ID             string   `json:"id"`
	OrganizationID *string  `json:"organizationId,omitempty"`
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	LegalStatus    string   `json:"legalStatus"`
	TotalAreaHa    float64  `json:"totalAreaHa"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	IsActive       bool     `json:"isActive"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

type Compartment struct {
	ID          string    `json:"id"`
	EstateID    string    `json:"estateId"`
	Estate      ParentRef `json:"estate"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	TotalAreaHa float64   `json:"totalAreaHa"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

type Stand struct {
	ID              string    `json:"id"`
	CompartmentID   string    `json:"compartmentId"`
	Compartment     ParentRef `json:"compartment"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	TotalAreaHa     float64   `json:"totalAreaHa"`
	PlantableAreaHa float64   `json:"plantableAreaHa"`
	RotationPhase   string    `json:"rotationPhase"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

type Plot struct {
	ID         string    `json:"id"`
	StandID    string    `json:"standId"`
	Stand      ParentRef `json:"stand"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	ShapeType  string    `json:"shapeType"`
	Dimension1 *float64  `json:"dimension1,omitempty"`
	Dimension2 *float64  `json:"dimension2,omitempty"`
	Dimension3 *float64  `json:"dimension3,omitempty"`
	Dimension4 *float64  `json:"dimension4,omitempty"`
	AreaM2     float64   `json:"areaM2"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

type LeafAsset struct {
	ID                 string `json:"id"`
	StandID            string `json:"standId"`
	BiologicalAssetKey string `json:"biologicalAssetKey"`
	SpeciesCode        string `json:"speciesCode,omitempty"`
	PlantedYear        *int   `json:"plantedYear,omitempty"`
	Quantity           *int   `json:"quantity,omitempty"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func FromEstate(e estate.Estate) Estate {
	var orgID *string
	if e.OrganizationID != nil {
		s := e.OrganizationID.String()
		orgID = &s
	}
	return Estate{
		ID:             e.ID.String(),
		OrganizationID: orgID,
		Code:           e.Code,
		Name:           e.Name,
		Type:           string(e.Type),
		LegalStatus:    string(e.LegalStatus),
		TotalAreaHa:    e.TotalAreaHa.InexactFloat64(),
		Latitude:       e.Latitude,
		Longitude:      e.Longitude,
		IsActive:       e.IsActive,
		CreatedAt:      formatTime(e.CreatedAt),
		UpdatedAt:      formatTime(e.UpdatedAt),
	}
}

func FromCompartment(c compartment.Compartment) Compartment {
	return Compartment{
		ID:       c.ID.String(),
		EstateID: c.EstateID.String(),
		Estate: ParentRef{
			ID:   c.Estate.ID.String(),
			Code: c.Estate.Code,
			Name: c.Estate.Name,
		},
		Code:        c.Code,
		Name:        c.Name,
		Type:        string(c.Type),
		TotalAreaHa: c.TotalAreaHa.InexactFloat64(),
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		IsActive:    c.IsActive,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}

func FromStand(s stand.Stand) Stand {
	return Stand{
		ID:            s.ID.String(),
		CompartmentID: s.CompartmentID.String(),
		Compartment: ParentRef{
			ID:   s.Compartment.ID.String(),
			Code: s.Compartment.Code,
			Name: s.Compartment.Name,
		},
		Code:            s.Code,
		Name:            s.Name,
		Type:            string(s.Type),
		TotalAreaHa:     s.TotalAreaHa.InexactFloat64(),
		PlantableAreaHa: s.PlantableAreaHa.InexactFloat64(),
		RotationPhase:   string(s.RotationPhase),
		Latitude:        s.Latitude,
		Longitude:       s.Longitude,
		IsActive:        s.IsActive,
		CreatedAt:       formatTime(s.CreatedAt),
		UpdatedAt:       formatTime(s.UpdatedAt),
	}
}

func FromPlot(p plot.Plot) Plot {
	return Plot{
		ID:      p.ID.String(),
		StandID: p.StandID.String(),
		Stand: ParentRef{
			ID:   p.Stand.ID.String(),
			Code: p.Stand.Code,
			Name: p.Stand.Name,
		},
		Code:       p.Code,
		Name:       p.Name,
		Type:       string(p.Type),
		ShapeType:  string(p.ShapeType),
		Dimension1: p.Dimension1,
		Dimension2: p.Dimension2,
		Dimension3: p.Dimension3,
		Dimension4: p.Dimension4,
		AreaM2:     p.AreaM2.InexactFloat64(),
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		IsActive:   p.IsActive,
		CreatedAt:  formatTime(p.CreatedAt),
		UpdatedAt:  formatTime(p.UpdatedAt),
	}
}

func FromLeafAsset(a leafasset.LeafAsset) LeafAsset {
	return LeafAsset{
		ID:                 a.ID.String(),
		StandID:            a.StandID.String(),
		BiologicalAssetKey: a.BiologicalAssetKey,
		SpeciesCode:        a.SpeciesCode,
		PlantedYear:        a.PlantedYear,
		Quantity:           a.Quantity,
		CreatedAt:          formatTime(a.CreatedAt),
		UpdatedAt:          formatTime(a.UpdatedAt),
	}
}

func FromEstates(items []estate.Estate) []Estate {
	out := make([]Estate, 0, len(items))
	for _, item := range items {
		out = append(out, FromEstate(item))
	}
	return out
}

func FromCompartments(items []compartment.Compartment) []Compartment {
	out := make([]Compartment, 0, len(items))
	for _, item := range items {
		out = append(out, FromCompartment(item))
	}
	return out
}

func FromStands(items []stand.Stand) []Stand {
	out := make([]Stand, 0, len(items))
	for _, item := range items {
		out = append(out, FromStand(item))
	}
	return out
}

func FromPlots(items []plot.Plot) []Plot {
	out := make([]Plot, 0, len(items))
	for _, item := range items {
		out = append(out, FromPlot(item))
	}
	return out
}

func FromLeafAssets(items []leafasset.LeafAsset) []LeafAsset {
	out := make([]LeafAsset, 0, len(items))
	for _, item := range items {
		out = append(out, FromLeafAsset(item))
	}
	return out
}
