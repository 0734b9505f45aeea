package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/estate"
	"github.com/silvacore/patrimony/modules/forestry/permissions"
	"github.com/silvacore/patrimony/pkg/serrors"
)

// ImportService loads estates from an uploaded workbook. Rows are keyed
// by code: a known code updates the existing estate, an unknown one
// creates it, so re-importing the same file is idempotent. Rows go
// through EstateService.Create/Update, so imported mutations publish the
// same events and leave the same audit trail as interactive ones.
type ImportService struct {
	estates *EstateService
	lookup  estate.Repository
}

func NewImportService(estates *EstateService, lookup estate.Repository) *ImportService {
	return &ImportService{estates: estates, lookup: lookup}
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Errors  []ImportRowError `json:"errors,omitempty"`
}

var ErrImportSheetMissing = serrors.NewError(serrors.ValidationCode, "workbook has no Estates sheet", "Forestry.Import.SheetMissing")

const importSheet = "Estates"

func (s *ImportService) ImportEstates(ctx context.Context, r io.Reader) (ImportResult, error) {
	if _, err := authorize(ctx, permissions.ForestryImport); err != nil {
		return ImportResult{}, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, serrors.NewError(serrors.ValidationCode, "workbook could not be read", "Forestry.Import.Unreadable")
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows(importSheet)
	if err != nil {
		return ImportResult{}, ErrImportSheetMissing
	}

	var result ImportResult
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		rowNum := i + 1
		dto, err := parseEstateRow(row)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		created, err := s.upsertEstate(ctx, dto)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

func parseEstateRow(row []string) (*estate.CreateDTO, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	area, err := strconv.ParseFloat(cell(4), 64)
	if err != nil {
		return nil, fmt.Errorf("total area %q is not a number", cell(4))
	}

	dto := &estate.CreateDTO{
		Code:        cell(0),
		Name:        cell(1),
		Type:        cell(2),
		LegalStatus: cell(3),
		TotalAreaHa: area,
	}
	if lat := cell(5); lat != "" {
		v, err := strconv.ParseFloat(lat, 64)
		if err != nil {
			return nil, fmt.Errorf("latitude %q is not a number", lat)
		}
		dto.Latitude = &v
	}
	if lon := cell(6); lon != "" {
		v, err := strconv.ParseFloat(lon, 64)
		if err != nil {
			return nil, fmt.Errorf("longitude %q is not a number", lon)
		}
		dto.Longitude = &v
	}
	if errs, ok := dto.Ok(); !ok {
		fields := errs.Fields()
		parts := make([]string, 0, len(fields))
		for field, message := range fields {
			parts = append(parts, field+": "+message)
		}
		return nil, errors.New(strings.Join(parts, "; "))
	}
	return dto, nil
}

func (s *ImportService) upsertEstate(ctx context.Context, dto *estate.CreateDTO) (created bool, err error) {
	existing, err := s.lookup.GetByCode(ctx, dto.Code)
	if errors.Is(err, estate.ErrNotFound) {
		if _, err := s.estates.Create(ctx, dto); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	patch := &estate.UpdateDTO{
		Name:        &dto.Name,
		Type:        &dto.Type,
		LegalStatus: &dto.LegalStatus,
		TotalAreaHa: &dto.TotalAreaHa,
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
	}
	if _, err := s.estates.Update(ctx, existing.ID, patch); err != nil {
		return false, err
	}
	return false, nil
}
