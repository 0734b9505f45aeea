package services

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/compartment"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/estate"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/plot"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/stand"
	"github.com/silvacore/patrimony/modules/forestry/permissions"
)

// ExportService flattens the caller's visible hierarchy into a workbook
// with one sheet per level.
type ExportService struct {
	estates      estate.Repository
	compartments compartment.Repository
	stands       stand.Repository
	plots        plot.Repository
}

func NewExportService(
	estates estate.Repository,
	compartments compartment.Repository,
	stands stand.Repository,
	plots plot.Repository,
) *ExportService {
	return &ExportService{
		estates:      estates,
		compartments: compartments,
		stands:       stands,
		plots:        plots,
	}
}

const exportPageSize = 500

func optFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func (s *ExportService) ExportHierarchy(ctx context.Context) ([]byte, error) {
	if _, err := authorize(ctx, permissions.ForestryExport); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := s.writeEstates(ctx, f); err != nil {
		return nil, err
	}
	if err := s.writeCompartments(ctx, f); err != nil {
		return nil, err
	}
	if err := s.writeStands(ctx, f); err != nil {
		return nil, err
	}
	if err := s.writePlots(ctx, f); err != nil {
		return nil, err
	}

	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowIdx int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func (s *ExportService) writeEstates(ctx context.Context, f *excelize.File) error {
	const sheet = "Estates"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Code", "Name", "Type", "Legal Status", "Total Area (ha)", "Latitude", "Longitude", "Active"}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}

	rowIdx := 2
	for offset := 0; ; offset += exportPageSize {
		page, err := s.estates.GetPaginated(ctx, &estate.FindParams{Limit: exportPageSize, Offset: offset})
		if err != nil {
			return err
		}
		for _, e := range page {
			values := []any{
				e.Code, e.Name, string(e.Type), string(e.LegalStatus),
				e.TotalAreaHa.InexactFloat64(), optFloat(e.Latitude), optFloat(e.Longitude), e.IsActive,
			}
			if err := writeRow(f, sheet, rowIdx, values); err != nil {
				return err
			}
			rowIdx++
		}
		if len(page) < exportPageSize {
			return nil
		}
	}
}

func (s *ExportService) writeCompartments(ctx context.Context, f *excelize.File) error {
	const sheet = "Compartments"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Estate Code", "Code", "Name", "Type", "Total Area (ha)", "Active"}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}

	rowIdx := 2
	for offset := 0; ; offset += exportPageSize {
		page, err := s.compartments.GetPaginated(ctx, &compartment.FindParams{Limit: exportPageSize, Offset: offset})
		if err != nil {
			return err
		}
		for _, c := range page {
			values := []any{
				c.Estate.Code, c.Code, c.Name, string(c.Type),
				c.TotalAreaHa.InexactFloat64(), c.IsActive,
			}
			if err := writeRow(f, sheet, rowIdx, values); err != nil {
				return err
			}
			rowIdx++
		}
		if len(page) < exportPageSize {
			return nil
		}
	}
}

func (s *ExportService) writeStands(ctx context.Context, f *excelize.File) error {
	const sheet = "Stands"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Compartment Code", "Code", "Name", "Type", "Total Area (ha)", "Plantable Area (ha)", "Rotation Phase", "Active"}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}

	rowIdx := 2
	for offset := 0; ; offset += exportPageSize {
		page, err := s.stands.GetPaginated(ctx, &stand.FindParams{Limit: exportPageSize, Offset: offset})
		if err != nil {
			return err
		}
		for _, st := range page {
			values := []any{
				st.Compartment.Code, st.Code, st.Name, string(st.Type),
				st.TotalAreaHa.InexactFloat64(), st.PlantableAreaHa.InexactFloat64(),
				string(st.RotationPhase), st.IsActive,
			}
			if err := writeRow(f, sheet, rowIdx, values); err != nil {
				return err
			}
			rowIdx++
		}
		if len(page) < exportPageSize {
			return nil
		}
	}
}

func (s *ExportService) writePlots(ctx context.Context, f *excelize.File) error {
	const sheet = "Plots"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Stand Code", "Code", "Name", "Type", "Shape", "Dim 1 (m)", "Dim 2 (m)", "Area (m2)", "Active"}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}

	rowIdx := 2
	for offset := 0; ; offset += exportPageSize {
		page, err := s.plots.GetPaginated(ctx, &plot.FindParams{Limit: exportPageSize, Offset: offset})
		if err != nil {
			return err
		}
		for _, p := range page {
			values := []any{
				p.Stand.Code, p.Code, p.Name, string(p.Type), string(p.ShapeType),
				optFloat(p.Dimension1), optFloat(p.Dimension2),
				p.AreaM2.InexactFloat64(), p.IsActive,
			}
			if err := writeRow(f, sheet, rowIdx, values); err != nil {
				return err
			}
			rowIdx++
		}
		if len(page) < exportPageSize {
			return nil
		}
	}
}

// ExportFileName names the download with the export moment baked in.
func ExportFileName(timestamp string) string {
	return fmt.Sprintf("patrimony-hierarchy-%s.xlsx", timestamp)
}
