package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// BulkRow is one data row of an uploaded workbook. Row is the 1-based sheet
// row number used in reports.
type BulkRow struct {
	Row   int
	Input AddCafeInput
}

type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type BulkResult struct {
	Added   int          `json:"added"`
	Skipped []SkippedRow `json:"skipped"`
}

// BulkAdd inserts every row independently. A failing row is reported and
// skipped; rows already stored stay stored. Workbook booleans are always
// parsed strictly since spreadsheets render them as TRUE/FALSE.
func (s *CafeService) BulkAdd(ctx context.Context, rows []BulkRow) (BulkResult, error) {
	res := BulkResult{Skipped: []SkippedRow{}}
	for _, r := range rows {
		if _, err := s.add(ctx, r.Input, true); err != nil {
			var se *Error
			if !errors.As(err, &se) || se.Kind == KindInternal {
				return res, err
			}
			res.Skipped = append(res.Skipped, SkippedRow{Row: r.Row, Reason: se.Message})
			continue
		}
		res.Added++
	}
	log.Ctx(ctx).Info().Int("added", res.Added).Int("skipped", len(res.Skipped)).Msg("bulk add finished")
	return res, nil
}
