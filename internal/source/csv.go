package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ontoqa/internal/graph"
)

// Column names of the tabular triple format.
const (
	ColumnID       = "ID"
	ColumnEdgeType = "EDGE_TYPE"
	ColumnHead     = "HEAD_ENTITY"
	ColumnTail     = "TAIL_ENTITY"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// ReadCSV reads triples from a header-led CSV stream. Column order is free;
// ID is optional and defaults to the data row number.
func ReadCSV(r io.Reader) ([]graph.Triple, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{ColumnEdgeType, ColumnHead, ColumnTail} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	idCol, hasID := cols[ColumnID]

	var triples []graph.Triple
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		t := graph.Triple{
			ID:   strconv.Itoa(row),
			Kind: field(rec, cols[ColumnEdgeType]),
			Head: field(rec, cols[ColumnHead]),
			Tail: field(rec, cols[ColumnTail]),
		}
		if hasID {
			t.ID = field(rec, idCol)
		}
		triples = append(triples, t)
	}
	return triples, nil
}

// WriteCSV writes triples with the standard header.
func WriteCSV(w io.Writer, triples []graph.Triple) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnID, ColumnEdgeType, ColumnHead, ColumnTail}); err != nil {
		return err
	}
	for _, t := range triples {
		if err := cw.Write([]string{t.ID, t.Kind, t.Head, t.Tail}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
