package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"interview-tayari/internal/domain"
	"interview-tayari/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{
	"COMPANY", "NAME", "COUNTRY", "EXPERIENCE", "CTC (LPA)", "DIFFICULTY", "VERIFIED", "QUESTIONS", "SUBMITTED AT",
}

type exportUsecase struct {
	listing domain.ListingUsecase
	now     func() time.Time
}

func NewExportUsecase(listing domain.ListingUsecase) domain.ExportUsecase {
	return &exportUsecase{listing: listing, now: time.Now}
}

func (u *exportUsecase) Export(ctx context.Context, query domain.ListingQuery, format string) ([]byte, string, error) {
	records, err := u.listing.Search(ctx, query)
	if err != nil {
		return nil, "", err
	}

	stamp := u.now().Format("20060102_150405")
	switch format {
	case "xlsx", "":
		data, err := exportExcel(records)
		if err != nil {
			return nil, "", apperror.Internal(err)
		}
		return data, fmt.Sprintf("interview_experiences_%s.xlsx", stamp), nil
	case "csv":
		data, err := exportCSV(records)
		if err != nil {
			return nil, "", apperror.Internal(err)
		}
		return data, fmt.Sprintf("interview_experiences_%s.csv", stamp), nil
	default:
		return nil, "", apperror.BadRequest("unsupported export format: " + format)
	}
}

func exportRow(e *domain.InterviewExperience) []interface{} {
	verified := "NO"
	if e.IsVerified() {
		verified = "YES"
	}
	return []interface{}{
		safeCell(e.Company),
		safeCell(e.Name),
		safeCell(e.Country),
		safeCell(deref(e.ExperienceYears)),
		safeCell(deref(e.CTC)),
		difficultyText(e.Difficulty),
		verified,
		safeCell(strings.Join(e.Questions, "\n")),
		e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// safeCell quotes user text that a spreadsheet would read as a formula.
func safeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func exportExcel(records []domain.InterviewExperience) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Experiences"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#0A2F7D"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
		_ = f.SetCellStyle(sheetName, "A1", endCell, headerStyle)
	}

	for i := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := exportRow(&records[i])
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func exportCSV(records []domain.InterviewExperience) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}
	for i := range records {
		row := exportRow(&records[i])
		values := make([]string, len(row))
		for j, v := range row {
			values[j] = fmt.Sprint(v)
		}
		if err := w.Write(values); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func difficultyText(d *domain.Difficulty) string {
	if d == nil {
		return ""
	}
	return string(*d)
}
