package plot_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/plot"
	"github.com/silvacore/patrimony/modules/forestry/domain/entities/geometry"
)

func fp(v float64) *float64 { return &v }

func validCreateDTO() *plot.CreateDTO {
	return &plot.CreateDTO{
		StandID:    uuid.New(),
		Code:       "p-01",
		Name:       "Sample Plot",
		Type:       "sample",
		ShapeType:  "square",
		Dimension1: fp(10),
	}
}

func TestCreateDTO_NormalizeAndValidate(t *testing.T) {
	dto := validCreateDTO()
	errs, ok := dto.Ok()
	require.True(t, ok)
	require.Empty(t, errs)

	require.Equal(t, "P-01", dto.Code)
	require.Equal(t, "SAMPLE", dto.Type)
	require.Equal(t, "SQUARE", dto.ShapeType)
}

func TestCreateDTO_InvalidPayloads(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*plot.CreateDTO)
		field  string
	}{
		{"missing stand", func(d *plot.CreateDTO) { d.StandID = uuid.Nil }, "StandID"},
		{"unknown type", func(d *plot.CreateDTO) { d.Type = "WEIRD" }, "Type"},
		{"unknown shape", func(d *plot.CreateDTO) { d.ShapeType = "TRIANGULAR" }, "ShapeType"},
		{"negative dimension", func(d *plot.CreateDTO) { d.Dimension1 = fp(-4) }, "Dimension1"},
		{"latitude out of range", func(d *plot.CreateDTO) { d.Latitude = fp(100) }, "Latitude"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dto := validCreateDTO()
			tc.mutate(dto)

			errs, ok := dto.Ok()
			require.False(t, ok)
			require.Contains(t, errs, tc.field)
		})
	}
}

func TestCreateDTO_ToEntityLeavesAreaDerivation(t *testing.T) {
	dto := validCreateDTO()
	_, ok := dto.Ok()
	require.True(t, ok)

	entity := dto.ToEntity()
	require.Equal(t, geometry.ShapeSquare, entity.ShapeType)
	require.True(t, entity.AreaM2.IsZero())
	require.Equal(t, dto.StandID, entity.StandID)
}

func TestUpdateDTO_TouchesGeometry(t *testing.T) {
	name := "Renamed Plot"
	require.False(t, (&plot.UpdateDTO{Name: &name}).TouchesGeometry())

	shape := "CIRCULAR"
	require.True(t, (&plot.UpdateDTO{ShapeType: &shape}).TouchesGeometry())
	require.True(t, (&plot.UpdateDTO{Dimension1: fp(5)}).TouchesGeometry())
	require.True(t, (&plot.UpdateDTO{Dimension4: fp(5)}).TouchesGeometry())
	require.False(t, (&plot.UpdateDTO{}).TouchesGeometry())
}

func TestUpdateDTO_ApplyMergesDimensions(t *testing.T) {
	dto := validCreateDTO()
	_, ok := dto.Ok()
	require.True(t, ok)
	current := dto.ToEntity()

	patch := &plot.UpdateDTO{Dimension1: fp(20)}
	errs, ok := patch.Ok()
	require.True(t, ok)
	require.Empty(t, errs)

	merged := patch.Apply(current)
	require.Equal(t, 20.0, *merged.Dimension1)
	require.Equal(t, geometry.ShapeSquare, merged.ShapeType)
	require.Equal(t, current.Code, merged.Code)
}
