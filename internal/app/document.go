package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dshills/ropedit/internal/engine"
	"github.com/dshills/ropedit/internal/engine/rope"
)

// StatusNewFile is shown after opening a path that does not exist yet.
const StatusNewFile = "New file"

// FileStore saves documents to the local file system.
type FileStore struct {
	// Perm is used when creating a file. Defaults to 0644.
	Perm fs.FileMode
}

// Save writes content to name, truncating any existing file.
func (s FileStore) Save(name string, content io.WriterTo) (err error) {
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}

	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = content.WriteTo(f)
	return err
}

// Document is an editing session bound to a file.
type Document struct {
	// Session is the text and edit history.
	Session *engine.Session

	store engine.Store
}

// NewScratchDocument creates a document with no file.
func NewScratchDocument(opts ...engine.Option) *Document {
	return &Document{
		Session: engine.New(opts...),
		store:   FileStore{},
	}
}

// OpenDocument loads path into a new session. A path that does not exist
// opens as an empty document that will be created on save.
func OpenDocument(path string, opts ...engine.Option) (*Document, error) {
	doc := NewScratchDocument(opts...)

	content, err := readRope(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		doc.Session.SetFilename(path)
		doc.Session.SetStatus(StatusNewFile)
		return doc, nil
	case err != nil:
		return nil, NewOperationError("open", path, err)
	}

	doc.Session.LoadRope(path, content)
	return doc, nil
}

// Path returns the file the document saves to, or "" for a scratch document.
func (d *Document) Path() string {
	return d.Session.Filename()
}

// Save writes the document to its file. On failure the session keeps
// its text and dirty flag and its status reports the reason.
func (d *Document) Save() error {
	if err := d.Session.Save(d.store); err != nil {
		return NewOperationError("save", d.Path(), err)
	}
	return nil
}

// Rename changes the file the document saves to.
func (d *Document) Rename(path string) {
	d.Session.SetFilename(path)
}

// Reload replaces the text with the file's current content. On failure
// the text and cursor are left untouched.
func (d *Document) Reload() error {
	path := d.Path()
	if path == "" {
		return NewOperationError("reload", "", engine.ErrNoFilename)
	}

	content, err := readRope(path)
	if err != nil {
		d.Session.SetStatus(fmt.Sprintf("Reload failed: %v", err))
		return NewOperationError("reload", path, err)
	}

	d.Session.LoadRope(path, content)
	return nil
}

// MatchesDisk reports whether the file holds exactly the document text.
func (d *Document) MatchesDisk() bool {
	path := d.Path()
	if path == "" {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var buf bytes.Buffer
	if _, err := d.Session.Rope().WriteTo(&buf); err != nil {
		return false
	}
	return bytes.Equal(data, buf.Bytes())
}

func readRope(path string) (rope.Rope, error) {
	f, err := os.Open(path)
	if err != nil {
		return rope.New(), err
	}
	defer f.Close()

	return rope.FromReader(f)
}
