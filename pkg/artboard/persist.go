package artboard

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/user/charts-go/internal/models"
)

// docEntry is the name of the single entry inside a saved document archive.
const docEntry = "document.gob"

// createFile opens the destination of Save.
var createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// Save writes the document to path as a gob-encoded, zip-compressed file.
func (d *Document) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(d); err != nil {
		return fmt.Errorf("failed to gob-encode document: %w", err)
	}

	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("failed to create document file %s: %w", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(docEntry)
	if err != nil {
		return fmt.Errorf("failed to create %s entry in zip: %w", docEntry, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write document to zip entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zip writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close document file %s: %w", path, err)
	}
	return nil
}

// Load reads a document written by Save.
func Load(path string) (*Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document file %s: %w", path, err)
	}
	defer zr.Close()

	if len(zr.File) == 0 || zr.File[0].Name != docEntry {
		return nil, fmt.Errorf("invalid document file %s: %s not found", path, docEntry)
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s from zip: %w", docEntry, err)
	}
	defer rc.Close()

	d := &Document{}
	if err := gob.NewDecoder(rc).Decode(d); err != nil {
		return nil, fmt.Errorf("failed to gob-decode document: %w", err)
	}
	if d.Nodes == nil {
		d.Nodes = make(map[models.ArtHandle]*Node)
	}
	for _, n := range d.Nodes {
		if n.Dict != nil && n.Dict.Entries == nil {
			n.Dict.Entries = make(map[string]Entry)
		}
	}
	return d, nil
}
