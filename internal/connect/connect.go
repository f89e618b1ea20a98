// Package connect reads and writes connect (CT) tables: one row per
// residue giving its 1-based position, base and partner (0 when unpaired).
package connect

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/inodb/vibe-fold/internal/rna"
	"github.com/inodb/vibe-fold/internal/structure"
)

// Read parses the connect file at path. The file's base name is used as the
// sequence identifier.
func Read(path string, scores *rna.PairScore, minLoop int) (*structure.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open connect file: %w", err)
	}
	defer f.Close()
	return Parse(f, filepath.Base(path), scores, minLoop)
}

type row struct {
	line    int
	pos     int
	base    string
	partner int
}

// Parse reads a connect table. Rows have either three columns (position,
// base, partner) or the six of the classic CT layout, where the partner is
// the fifth column. A first line that is not a row is taken as the title.
//
// Every problem found is reported, combined into one error: rows out of
// order, residues outside the RNA alphabet, asymmetric partners, crossing
// or disallowed pairs and loops of span minLoop or less.
func Parse(r io.Reader, id string, scores *rna.PairScore, minLoop int) (*structure.Structure, error) {
	var (
		rows []row
		errs error
	)

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		rw, err := parseRow(fields)
		if err != nil {
			if lineNumber == 1 {
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("line %d: %w", lineNumber, err))
			continue
		}
		rw.line = lineNumber
		rows = append(rows, rw)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read connect table: %w", err)
	}

	var residues strings.Builder
	for i, rw := range rows {
		if rw.pos != i+1 {
			errs = multierr.Append(errs, fmt.Errorf("line %d: expected position %d, found %d", rw.line, i+1, rw.pos))
		}
		residues.WriteString(strings.ToUpper(rw.base))
	}

	pairing, err := pairsFromRows(rows)
	errs = multierr.Append(errs, err)

	seq, err := rna.NewSequence(id, residues.String())
	if err != nil {
		return nil, multierr.Append(errs, err)
	}
	if errs != nil {
		return nil, errs
	}

	s, err := structure.FromPairing(seq, pairing, scores)
	if err != nil {
		return nil, err
	}
	errs = multierr.Append(errs, s.Validate())
	errs = multierr.Append(errs, s.ValidateHairpin(minLoop))
	if errs != nil {
		return nil, errs
	}
	return s, nil
}

func parseRow(fields []string) (row, error) {
	var partnerField string
	switch len(fields) {
	case 3:
		partnerField = fields[2]
	case 6:
		partnerField = fields[4]
	default:
		return row{}, fmt.Errorf("expected 3 or 6 columns, found %d", len(fields))
	}
	pos, err := strconv.Atoi(fields[0])
	if err != nil {
		return row{}, fmt.Errorf("invalid position %q", fields[0])
	}
	partner, err := strconv.Atoi(partnerField)
	if err != nil || partner < 0 {
		return row{}, fmt.Errorf("invalid partner %q", partnerField)
	}
	return row{pos: pos, base: fields[1], partner: partner}, nil
}

// pairsFromRows collects (min, max) pairs and checks that every partner
// points back.
func pairsFromRows(rows []row) (rna.Pairing, error) {
	partner := make(map[int]int, len(rows))
	for _, rw := range rows {
		partner[rw.pos] = rw.partner
	}

	var (
		pairs rna.Pairing
		errs  error
	)
	for _, rw := range rows {
		if rw.partner == 0 {
			continue
		}
		if rw.partner > len(rows) {
			errs = multierr.Append(errs, fmt.Errorf("line %d: partner %d beyond sequence end %d", rw.line, rw.partner, len(rows)))
			continue
		}
		if rw.partner == rw.pos {
			errs = multierr.Append(errs, fmt.Errorf("line %d: position %d paired with itself", rw.line, rw.pos))
			continue
		}
		if back := partner[rw.partner]; back != rw.pos {
			errs = multierr.Append(errs, fmt.Errorf("line %d: position %d pairs with %d, which pairs with %d", rw.line, rw.pos, rw.partner, back))
			continue
		}
		if rw.pos < rw.partner {
			pairs = append(pairs, rna.Pair{I: rw.pos - 1, J: rw.partner - 1})
		}
	}
	return pairs, errs
}

// Write emits the connect table of s as tab-separated rows.
func Write(w io.Writer, s *structure.Structure) error {
	bw := bufio.NewWriter(w)
	for _, rw := range s.ConnectTable() {
		if _, err := fmt.Fprintf(bw, "%d\t%c\t%d\n", rw.Position, rw.Base, rw.Partner); err != nil {
			return err
		}
	}
	return bw.Flush()
}
