package report

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Row is one CSV record keyed by header name.
type Row map[string]string

// Table is an ordered CSV table: the column slice preserves file order and
// drives the output layout; added columns append at the end.
type Table struct {
	Columns []string
	Rows    []Row
}

// AddColumn registers a column if not already present.
func (t *Table) AddColumn(name string) {
	for _, col := range t.Columns {
		if col == name {
			return
		}
	}
	t.Columns = append(t.Columns, name)
}

// ReadCSV loads a header-keyed CSV table. A file with a header but zero data
// rows is the one fatal input condition of the batch tools.
func ReadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Curated files often have trailing blank cells trimmed; short rows
	// pad with blanks instead of failing.
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 || len(records) == 1 {
		return nil, fmt.Errorf("input file has no rows")
	}

	header := records[0]
	table := &Table{Columns: append([]string(nil), header...)}
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// WriteCSV writes the table back out in column order.
func WriteCSV(table *Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range table.Rows {
		record := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
