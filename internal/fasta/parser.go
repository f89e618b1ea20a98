package fasta

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inodb/vibe-fold/internal/rna"
)

// Parser reads sequences from a FASTA file.
type Parser struct {
	reader      *bufio.Reader
	file        *os.File
	gzipReader  *gzip.Reader
	lineNumber  int
	pending     string // header read ahead of the next record
	pendingLine int
}

// NewParser creates a new FASTA parser for the given file.
// Supports both plain and gzipped files; "-" reads stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fasta file: %w", err)
	}

	p := &Parser{file: file}

	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read fasta file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek fasta file: %w", err)
	}

	// gzip magic number (0x1f, 0x8b)
	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// readLine returns the next line without its terminator, or io.EOF.
func (p *Parser) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			p.lineNumber++
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	p.lineNumber++
	return strings.TrimRight(line, "\r\n"), nil
}

// Next reads the next sequence. Lines of one record are concatenated,
// upper-cased and checked against the RNA alphabet (T is read as U).
// Returns nil, nil when there are no more sequences.
func (p *Parser) Next() (*rna.Sequence, error) {
	header, headerLine := p.pending, p.pendingLine
	p.pending = ""

	for header == "" {
		line, err := p.readLine()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read fasta line: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if !strings.HasPrefix(line, ">") {
			return nil, &ParseError{Line: p.lineNumber, Message: "sequence data before first header"}
		}
		header, headerLine = line, p.lineNumber
	}

	var residues strings.Builder
	for {
		line, err := p.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read fasta line: %w", err)
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, ">") {
			p.pending, p.pendingLine = line, p.lineNumber
			break
		}
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		residues.WriteString(line)
	}

	title := strings.TrimSpace(header[1:])
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return nil, &ParseError{Line: headerLine, Message: "empty sequence identifier"}
	}

	seq, err := rna.NewSequence(fields[0], residues.String())
	if err != nil {
		var cerr *rna.ConfigurationError
		if errors.As(err, &cerr) {
			return nil, &ParseError{Line: headerLine, Message: fmt.Sprintf("%s: %s", fields[0], cerr.Message)}
		}
		return nil, err
	}
	if desc := strings.TrimSpace(strings.TrimPrefix(title, fields[0])); desc != "" {
		seq = seq.WithDescription(desc)
	}
	return seq, nil
}

// LineNumber returns the current line number.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during FASTA parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fasta parse error at line %d: %s", e.Line, e.Message)
}
