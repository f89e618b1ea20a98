package fasta

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const twoRecords = `>hairpin first test sequence
GGGGAAA
CCCC
>loop
acgt
`

func TestParser_Records(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(twoRecords))
	defer p.Close()

	s, err := p.Next()
	if err != nil {
		t.Fatalf("Failed to read sequence: %v", err)
	}
	if s == nil {
		t.Fatal("Expected a sequence, got nil")
	}
	if s.ID() != "hairpin" {
		t.Errorf("Expected id hairpin, got %s", s.ID())
	}
	if s.Residues() != "GGGGAAACCCC" {
		t.Errorf("Expected GGGGAAACCCC, got %s", s.Residues())
	}
	if s.Description() != "first test sequence" {
		t.Errorf("Unexpected description %q", s.Description())
	}

	s, err = p.Next()
	if err != nil {
		t.Fatalf("Failed to read sequence: %v", err)
	}
	if s.ID() != "loop" || s.Residues() != "ACGU" {
		t.Errorf("Expected loop ACGU, got %s %s", s.ID(), s.Residues())
	}
	if s.Description() != "" {
		t.Errorf("Expected no description, got %q", s.Description())
	}

	s, err = p.Next()
	if err != nil {
		t.Fatalf("Error checking for more sequences: %v", err)
	}
	if s != nil {
		t.Error("Expected no more sequences")
	}
}

func TestParser_NoTrailingNewline(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(">x\nGGGAAACCC"))
	s, err := p.Next()
	if err != nil {
		t.Fatalf("Failed to read sequence: %v", err)
	}
	if s.Residues() != "GGGAAACCC" {
		t.Errorf("Expected GGGAAACCC, got %s", s.Residues())
	}
}

func TestParser_InvalidResidue(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(">ok\nACGU\n>bad\nACXU\n"))
	if _, err := p.Next(); err != nil {
		t.Fatalf("First record should parse: %v", err)
	}

	_, err := p.Next()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if perr.Line != 3 {
		t.Errorf("Expected error at header line 3, got %d", perr.Line)
	}
	if !strings.Contains(perr.Error(), "bad") {
		t.Errorf("Error should name the record: %s", perr.Error())
	}
}

func TestParser_DataBeforeHeader(t *testing.T) {
	p := NewParserFromReader(strings.NewReader("ACGU\n>x\nACGU\n"))
	_, err := p.Next()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if perr.Line != 1 {
		t.Errorf("Expected line 1, got %d", perr.Line)
	}
}

func TestParser_EmptyInput(t *testing.T) {
	p := NewParserFromReader(strings.NewReader("\n\n"))
	s, err := p.Next()
	if err != nil || s != nil {
		t.Errorf("Expected nil, nil on empty input, got %v, %v", s, err)
	}
}

func TestNewParser_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seqs.fa.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(twoRecords)); err != nil {
		t.Fatal(err)
	}
	zw.Close()
	f.Close()

	p, err := NewParser(path)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer p.Close()

	count := 0
	for {
		s, err := p.Next()
		if err != nil {
			t.Fatalf("Failed to read sequence: %v", err)
		}
		if s == nil {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("Expected 2 sequences, got %d", count)
	}
}

func TestNewParser_MissingFile(t *testing.T) {
	if _, err := NewParser(filepath.Join(t.TempDir(), "missing.fa")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestSliceReader(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(twoRecords))
	a, _ := p.Next()
	b, _ := p.Next()

	var r SequenceReader = NewSliceReader(a, b)
	var ids []string
	for {
		s, err := r.Next()
		if err != nil {
			t.Fatal(err)
		}
		if s == nil {
			break
		}
		ids = append(ids, s.ID())
	}
	if strings.Join(ids, ",") != "hairpin,loop" {
		t.Errorf("Unexpected ids %v", ids)
	}
}
