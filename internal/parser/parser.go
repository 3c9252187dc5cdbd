package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MabelHsu/ig-fb-view-analyzer/internal/analysis"
)

// Options tunes decoding of one upload.
type Options struct {
	// Sheet selects a workbook sheet by name; empty means the first sheet.
	Sheet string
	// Delimiter forces the CSV field separator; zero means sniff it.
	Delimiter rune
}

// Parser decodes one export format into a table.
type Parser interface {
	CanParse(filename string) bool
	Parse(name string, content []byte, opt Options) (*analysis.Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseFile reads path and decodes it with the parser matching its name.
func ParseFile(path string, opt Options) (*analysis.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &analysis.DecodeError{Name: filepath.Base(path), Err: fmt.Errorf("read file: %w", err)}
	}
	return Parse(filepath.Base(path), data, opt)
}

// Parse decodes an in-memory upload. The parser is picked by file name; a
// name without a known extension is sniffed, falling back to delimited text.
func Parse(name string, content []byte, opt Options) (*analysis.Table, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, &analysis.DecodeError{Name: name, Err: ErrEmpty}
	}
	for _, p := range registry {
		if p.CanParse(name) {
			return p.Parse(name, content, opt)
		}
	}
	if bytes.HasPrefix(content, zipMagic) {
		return xlsxParser{}.Parse(name, content, opt)
	}
	return csvParser{}.Parse(name, content, opt)
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}

var (
	// ErrEmpty indicates an upload without any content.
	ErrEmpty = errors.New("file is empty")
	// ErrBinary indicates content that is not delimited text.
	ErrBinary = errors.New("content is binary, not delimited text")
	// ErrNoHeader indicates a table without a header row.
	ErrNoHeader = errors.New("no header row")
)

var zipMagic = []byte("PK\x03\x04")
