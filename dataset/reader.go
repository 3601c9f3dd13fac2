// Copyright 2025 AICam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package dataset reads the flat UTF-8 CSV source tables. It validates
// headers and surfaces raw rows; column-level validation belongs to the
// schema mapper.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zhangxiaofan-star/AICam/core"
	"github.com/zhangxiaofan-star/AICam/schema"
)

// Sources names the two input tables of one load run.
type Sources struct {
	ProcessesPath string
	ToolsPath     string
}

// ReadProcessTable reads processes.csv and returns its raw rows plus the
// violations for rows that could not be parsed.
func ReadProcessTable(path string) ([]schema.ProcessRow, []*core.SchemaViolation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open process table: %w", err)
	}
	defer f.Close()
	return ReadProcessRows(f)
}

// ReadProcessRows reads process rows from r. Exposed separately so tests
// and pipelines can feed in-memory tables. A structurally malformed data
// row is skipped and reported as a violation, not a fatal error; only an
// unusable header aborts the read.
func ReadProcessRows(r io.Reader) ([]schema.ProcessRow, []*core.SchemaViolation, error) {
	records, violations, err := readTable(r, schema.ProcessTable, schema.ProcessTableColumns, false)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]schema.ProcessRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, schema.ProcessRow{
			Line:             rec.line,
			TemplateID:       rec.fields[0],
			FeatureID:        rec.fields[1],
			FeatureName:      rec.fields[2],
			ComponentSurface: rec.fields[3],
			FeatureSurface:   rec.fields[4],
			SurfaceType:      rec.fields[5],
			SidewallFeature:  rec.fields[6],
			Allowance:        rec.fields[7],
			Stage:            rec.fields[8],
			Type:             rec.fields[9],
		})
	}
	return rows, violations, nil
}

// ReadToolTable reads tools.csv and returns its raw rows plus the
// violations for rows that could not be parsed.
func ReadToolTable(path string) ([]schema.ToolRow, []*core.SchemaViolation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open tool table: %w", err)
	}
	defer f.Close()
	return ReadToolRows(f)
}

// ReadToolRows reads tool rows from r.
func ReadToolRows(r io.Reader) ([]schema.ToolRow, []*core.SchemaViolation, error) {
	records, violations, err := readTable(r, schema.ToolTable, schema.ToolTableColumns, true)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]schema.ToolRow, 0, len(records))
	for _, rec := range records {
		row := schema.ToolRow{
			Line:         rec.line,
			ID:           rec.fields[0],
			Name:         rec.fields[1],
			Diameter:     rec.fields[2],
			CornerRadius: rec.fields[3],
			FluteCount:   rec.fields[4],
			Stickout:     rec.fields[5],
		}
		if len(rec.fields) > 6 {
			row.Templates = rec.fields[6]
		}
		rows = append(rows, row)
	}
	return rows, violations, nil
}

type record struct {
	line   int
	fields []string
}

// readTable parses a CSV stream and validates the header against the
// declared column set. allowExtra permits one optional trailing column
// (the tool table's 适用模板). Data rows that fail to parse or are too
// short are skipped and collected as violations.
func readTable(r io.Reader, table string, columns []string, allowExtra bool) ([]record, []*core.SchemaViolation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // optional trailing column; width checked per row
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, core.Violation(table, 1, "", "cannot read header: "+err.Error())
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF") // UTF-8 BOM
	}
	if err := checkHeader(table, header, columns, allowExtra); err != nil {
		return nil, nil, err
	}

	var records []record
	var violations []*core.SchemaViolation
	line := 1
	for {
		fields, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			violations = append(violations, core.Violation(table, line, "", "malformed row: "+err.Error()))
			continue
		}
		if isBlank(fields) {
			continue
		}
		if len(fields) < len(columns) {
			violations = append(violations, core.Violation(table, line, "", fmt.Sprintf("expected at least %d columns, got %d", len(columns), len(fields))))
			continue
		}
		records = append(records, record{line: line, fields: fields})
	}
	return records, violations, nil
}

func checkHeader(table string, header, columns []string, allowExtra bool) error {
	if len(header) < len(columns) {
		return core.Violation(table, 1, "", fmt.Sprintf("header has %d columns, want %d", len(header), len(columns)))
	}
	for i, want := range columns {
		if got := strings.TrimSpace(header[i]); got != want {
			return core.Violation(table, 1, want, "unexpected header column: "+got)
		}
	}
	if !allowExtra && len(header) > len(columns) {
		return core.Violation(table, 1, "", "unexpected extra columns")
	}
	return nil
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
