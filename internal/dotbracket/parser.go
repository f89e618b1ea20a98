// Package dotbracket reads and writes dot-bracket batch files: records of
// three lines holding ">id", the sequence and its structure.
package dotbracket

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/inodb/vibe-fold/internal/rna"
	"github.com/inodb/vibe-fold/internal/structure"
)

// Record is one unvalidated entry of a dot-bracket file.
type Record struct {
	ID        string
	Sequence  string
	Structure string
	Line      int // line of the header
}

// Parser reads records from a dot-bracket file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	lineNumber int
}

// NewParser opens path for reading; "-" reads stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dot-bracket file: %w", err)
	}
	return &Parser{reader: bufio.NewReader(f), file: f}, nil
}

// NewParserFromReader creates a parser from an io.Reader.
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

func (p *Parser) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	p.lineNumber++
	return strings.TrimSpace(line), nil
}

// Next reads the next record. Blank lines between records are skipped.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*Record, error) {
	var header string
	for header == "" {
		line, err := p.readLine()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read dot-bracket line: %w", err)
		}
		header = line
	}
	rec := &Record{Line: p.lineNumber}
	if !strings.HasPrefix(header, ">") {
		return nil, &ParseError{Line: rec.Line, Message: fmt.Sprintf("expected '>' header, found %q", header)}
	}
	rec.ID = strings.TrimSpace(header[1:])

	seq, err := p.readLine()
	if err != nil {
		return nil, &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("record %s: missing sequence line", rec.ID)}
	}
	db, err := p.readLine()
	if err != nil {
		return nil, &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("record %s: missing structure line", rec.ID)}
	}
	rec.Sequence = strings.ToUpper(seq)
	rec.Structure = db
	return rec, nil
}

// LineNumber returns the current line number.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the underlying file, if any.
func (p *Parser) Close() error {
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// Build turns a record into a structure that passes structural and hairpin
// validation.
func (r *Record) Build(scores *rna.PairScore, minLoop int) (*structure.Structure, error) {
	seq, err := rna.NewSequence(r.ID, r.Sequence)
	if err != nil {
		return nil, err
	}
	s, err := structure.FromDotBracket(seq, r.Structure, scores)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := s.ValidateHairpin(minLoop); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadStructures parses every record of a dot-bracket file. Valid
// structures are returned in file order; every rejected record contributes
// one error to the combined error, which callers can split with
// multierr.Errors.
func ReadStructures(path string, scores *rna.PairScore, minLoop int) ([]*structure.Structure, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return readAll(p, scores, minLoop)
}

func readAll(p *Parser, scores *rna.PairScore, minLoop int) ([]*structure.Structure, error) {
	var (
		out  []*structure.Structure
		errs error
	)
	for {
		rec, err := p.Next()
		if err != nil {
			return out, multierr.Append(errs, err)
		}
		if rec == nil {
			break
		}
		s, err := rec.Build(scores, minLoop)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("record %s (line %d): %w", rec.ID, rec.Line, err))
			continue
		}
		out = append(out, s)
	}
	return out, errs
}

// ByID indexes structures by sequence identifier.
func ByID(structs []*structure.Structure) map[string]*structure.Structure {
	m := make(map[string]*structure.Structure, len(structs))
	for _, s := range structs {
		m[s.Sequence().ID()] = s
	}
	return m
}

// ParseError represents a malformed dot-bracket file.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dot-bracket parse error at line %d: %s", e.Line, e.Message)
}
