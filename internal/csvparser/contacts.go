package csvparser

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ContactRow is a single contact extracted from an uploaded CSV.
type ContactRow struct {
	Email string
	Name  string
}

// ParseContacts parses a contact CSV from r. The CSV must contain a header
// row with an "Email" column (case-insensitive); a "Name" column is optional.
// Rows with a missing or blank email are skipped.
//
// maxRows limits how many data rows are parsed (excluding header).
func ParseContacts(r io.Reader, maxRows int) ([]ContactRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, errors.New("csv header row is empty")
	}

	emailIdx := -1
	nameIdx := -1
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if strings.EqualFold(h, "email") {
			emailIdx = i
		}
		if strings.EqualFold(h, "name") {
			nameIdx = i
		}
	}
	if emailIdx == -1 {
		return nil, errors.New("csv must contain an Email column")
	}

	if maxRows <= 0 {
		maxRows = 1000
	}

	rows := make([]ContactRow, 0)
	for len(rows) < maxRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != len(headers) {
			// skip malformed row
			continue
		}

		email := strings.TrimSpace(record[emailIdx])
		if email == "" {
			continue
		}

		row := ContactRow{Email: email}
		if nameIdx != -1 {
			row.Name = strings.TrimSpace(record[nameIdx])
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.New("csv must contain at least one data row")
	}

	return rows, nil
}
