package services

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/compartment"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/estate"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/plot"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/stand"
	"github.com/silvacore/patrimony/modules/forestry/permissions"
)

func TestExportService_WorkbookRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := authCtx(uuid.New(), append(allForestryPermissions(), permissions.ForestryExport)...)

	e, err := f.estateSvc.Create(ctx, &estate.CreateDTO{
		Code: "E1", Name: "North Holding", Type: "FARM", LegalStatus: "ACQUISITION", TotalAreaHa: 120.5,
	})
	require.NoError(t, err)
	c, err := f.compartmentSvc.Create(ctx, &compartment.CreateDTO{
		EstateID: e.ID, Code: "C1", Name: "Upper Block", Type: "BLOCK", TotalAreaHa: 40,
	})
	require.NoError(t, err)
	s, err := f.standSvc.Create(ctx, &stand.CreateDTO{
		CompartmentID: c.ID, Code: "S1", Name: "Pine Stand", Type: "STAND",
		TotalAreaHa: 12, PlantableAreaHa: 10, RotationPhase: "GROWTH",
	})
	require.NoError(t, err)
	_, err = f.plotSvc.Create(ctx, &plot.CreateDTO{
		StandID: s.ID, Code: "P1", Name: "Sample Plot", Type: "SAMPLE",
		ShapeType: "SQUARE", Dimension1: fp(10),
	})
	require.NoError(t, err)

	exporter := NewExportService(f.estates, f.compartments, f.stands, f.plots)
	payload, err := exporter.ExportHierarchy(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	wb, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer func() {
		_ = wb.Close()
	}()

	require.ElementsMatch(t, []string{"Estates", "Compartments", "Stands", "Plots"}, wb.GetSheetList())

	estates, err := wb.GetRows("Estates")
	require.NoError(t, err)
	require.Len(t, estates, 2)
	require.Equal(t, "E1", estates[1][0])
	require.Equal(t, "North Holding", estates[1][1])

	plots, err := wb.GetRows("Plots")
	require.NoError(t, err)
	require.Len(t, plots, 2)
	require.Equal(t, "S1", plots[1][0])
	require.Equal(t, "P1", plots[1][1])
	require.Equal(t, "SQUARE", plots[1][4])
}

func TestExportService_RequiresPermission(t *testing.T) {
	f := newFixture()
	ctx := authCtx(uuid.New(), permissions.ForestryRead)

	exporter := NewExportService(f.estates, f.compartments, f.stands, f.plots)
	_, err := exporter.ExportHierarchy(ctx)
	require.ErrorIs(t, err, ErrForbidden)
}

func importWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	wb := excelize.NewFile()
	defer func() {
		_ = wb.Close()
	}()

	_, err := wb.NewSheet("Estates")
	require.NoError(t, err)
	require.NoError(t, wb.DeleteSheet("Sheet1"))

	header := []any{"Code", "Name", "Type", "Legal Status", "Total Area (ha)", "Latitude", "Longitude"}
	all := append([][]any{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow("Estates", cell, &row))
	}

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func countEvents[T any](events []any) int {
	n := 0
	for _, ev := range events {
		if _, ok := ev.(T); ok {
			n++
		}
	}
	return n
}

func TestImportService_ImportEstatesIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := authCtx(uuid.New(), append(allForestryPermissions(), permissions.ForestryImport)...)
	importer := NewImportService(f.estateSvc, f.estates)

	buf := importWorkbook(t, [][]any{
		{"E1", "North Holding", "FARM", "ACQUISITION", 120.5, -12.5, -55.1},
		{"E2", "South Holding", "RANCH", "LEASE", 80.0},
	})

	result, err := importer.ImportEstates(ctx, buf)
	require.NoError(t, err)
	require.Equal(t, 2, result.Created)
	require.Equal(t, 0, result.Updated)
	require.Empty(t, result.Errors)
	require.Len(t, f.estates.items, 2)

	// imported rows flow through the estate service, so the bus (and with
	// it the audit trail) sees the same events as interactive creates
	require.Equal(t, 2, countEvents[estate.CreatedEvent](f.bus.events))
	require.Equal(t, 0, countEvents[estate.UpdatedEvent](f.bus.events))

	// the same file again only updates
	buf = importWorkbook(t, [][]any{
		{"E1", "North Holding Renamed", "FARM", "ACQUISITION", 130.0, -12.5, -55.1},
		{"E2", "South Holding", "RANCH", "LEASE", 80.0},
	})
	result, err = importer.ImportEstates(ctx, buf)
	require.NoError(t, err)
	require.Equal(t, 0, result.Created)
	require.Equal(t, 2, result.Updated)
	require.Len(t, f.estates.items, 2)
	require.Equal(t, 2, countEvents[estate.CreatedEvent](f.bus.events))
	require.Equal(t, 2, countEvents[estate.UpdatedEvent](f.bus.events))

	e1, err := f.estates.GetByCode(ctx, "E1")
	require.NoError(t, err)
	require.Equal(t, "North Holding Renamed", e1.Name)
	require.InDelta(t, 130.0, e1.TotalAreaHa.InexactFloat64(), 1e-9)
}

func TestImportService_BadRowsReportedNotFatal(t *testing.T) {
	f := newFixture()
	ctx := authCtx(uuid.New(), append(allForestryPermissions(), permissions.ForestryImport)...)
	importer := NewImportService(f.estateSvc, f.estates)

	buf := importWorkbook(t, [][]any{
		{"E1", "North Holding", "FARM", "ACQUISITION", 120.5},
		{"E2", "Broken Holding", "CASTLE", "ACQUISITION", 10.0},
		{"E3", "No Area Holding", "FARM", "LEASE", "not-a-number"},
	})

	result, err := importer.ImportEstates(ctx, buf)
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)
	require.Equal(t, 0, result.Updated)
	require.Len(t, result.Errors, 2)
	require.Equal(t, 3, result.Errors[0].Row)
	require.Equal(t, 4, result.Errors[1].Row)
	require.Len(t, f.estates.items, 1)
	require.Equal(t, 1, countEvents[estate.CreatedEvent](f.bus.events))
}
