package ioingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// metadataRecord is one optional enrichment row
// (skill_id,text_type,text_mode,skill_domain).
type metadataRecord struct {
	skillID     string
	textType    string
	textMode    string
	skillDomain string
}

func readMetadata(path string) ([]metadataRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, OpenInputError(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 4

	// header row
	if _, err := r.Read(); err != nil {
		return nil, ParseInputError(path, 1, err)
	}

	var res []metadataRecord
	seen := make(map[string]struct{})
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, ParseInputError(path, line, err)
		}
		id := strings.TrimSpace(rec[0])
		if id == "" {
			return nil, ValidationError(line, "metadata skill_id is empty")
		}
		if _, ok := seen[id]; ok {
			return nil, ValidationError(line,
				fmt.Sprintf("duplicate metadata for skill %s", id))
		}
		seen[id] = struct{}{}
		res = append(res, metadataRecord{
			skillID:     id,
			textType:    strings.TrimSpace(rec[1]),
			textMode:    strings.TrimSpace(rec[2]),
			skillDomain: strings.TrimSpace(rec[3]),
		})
	}
	return res, nil
}

func (ing *ingestor) insertMetadata(
	ctx context.Context,
	records []metadataRecord,
) (int, error) {
	batchSize := ing.cfg.Database.BatchSize
	if batchSize <= 0 || batchSize > 16_000 {
		batchSize = 16_000
	}

	var total int
	for i := 0; i < len(records); i += batchSize {
		end := slices.Min([]int{i + batchSize, len(records)})
		batch := records[i:end]

		var valueStrings []string
		var valueArgs []any
		argIdx := 1

		for _, m := range batch {
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d, $%d, $%d, $%d)",
				argIdx, argIdx+1, argIdx+2, argIdx+3,
			))
			valueArgs = append(valueArgs,
				m.skillID, m.textType, m.textMode, m.skillDomain)
			argIdx += 4
		}

		insertQuery := fmt.Sprintf(
			`INSERT INTO skill_metadata
			 (skill_id, text_type, text_mode, skill_domain)
			 VALUES %s
			 ON CONFLICT (skill_id) DO NOTHING`,
			strings.Join(valueStrings, ", "),
		)

		result, err := ing.operator.Pool().Exec(ctx, insertQuery, valueArgs...)
		if err != nil {
			return 0, InsertError("skill_metadata", err)
		}
		total += int(result.RowsAffected())
	}
	return total, nil
}
