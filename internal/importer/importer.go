// Package importer decodes exported spreadsheets into rows of cells and
// manages the project's import inbox.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anggaran-dev/anggaran/internal/sheet"
)

// ErrUnsupportedFormat is returned for files no registered decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// Decoder turns a spreadsheet file into a two-dimensional table of cells.
type Decoder interface {
	Decode(r io.Reader) ([][]sheet.Cell, error)
	Format() string
}

// Registry holds decoders keyed by format (file extension without the dot).
type Registry struct {
	decoders map[string]Decoder
}

// FileInfo describes a spreadsheet waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty decoder registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Register adds a decoder. Panics on duplicate format.
func (r *Registry) Register(d Decoder) {
	key := strings.ToLower(d.Format())
	if _, ok := r.decoders[key]; ok {
		panic("duplicate decoder format: " + key)
	}
	r.decoders[key] = d
}

// Get returns the decoder for format, or nil.
func (r *Registry) Get(format string) Decoder {
	return r.decoders[strings.ToLower(strings.TrimPrefix(format, "."))]
}

// ForFile returns the decoder matching the file's extension, or nil.
func (r *Registry) ForFile(name string) Decoder {
	return r.Get(filepath.Ext(name))
}

// Decode decodes the named content with the decoder for its extension.
func (r *Registry) Decode(name string, rd io.Reader) ([][]sheet.Cell, error) {
	d := r.ForFile(name)
	if d == nil {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
	rows, err := d.Decode(rd)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(name), err)
	}
	return rows, nil
}

// DecodeFile opens path and decodes it.
func (r *Registry) DecodeFile(path string) ([][]sheet.Cell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return r.Decode(path, f)
}

// DefaultRegistry returns a registry with all built-in decoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVDecoder{})
	r.Register(&XLSXDecoder{})
	r.Register(&XLSDecoder{})
	return r
}

// importDir is the subdirectory for spreadsheets awaiting import.
const importDir = "import"

// processedDir is the subdirectory for imported spreadsheets.
const processedDir = "import/processed"

// Scan returns the files in <repoRoot>/import/ that reg can decode.
func Scan(repoRoot string, reg *Registry) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if reg.ForFile(e.Name()) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
