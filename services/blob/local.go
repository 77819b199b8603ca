package blobsvc

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
)

// Storage persists uploaded files and returns their public URL along with the
// store-relative path.
type Storage interface {
	Save(filename string, src io.Reader) (url, path string, err error)
}

type localStorage struct {
	root    string
	baseURL string
}

var _ Storage = (*localStorage)(nil)

func NewLocalStorage(conf *core.Config) *localStorage {
	return &localStorage{
		root:    conf.Media.Root,
		baseURL: conf.Media.BaseURL,
	}
}

// Save writes src under a fresh name, keeping only the extension of the
// client-supplied filename.
func (s *localStorage) Save(filename string, src io.Reader) (string, string, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	dir := filepath.Join(s.root, "uploads")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", errors.Wrap(err, "creating upload dir")
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", "", errors.Wrap(err, "creating upload file")
	}
	defer func() { _ = dst.Close() }()

	if _, err = io.Copy(dst, src); err != nil {
		return "", "", errors.Wrap(err, "writing upload file")
	}

	relPath := "uploads/" + name
	return s.baseURL + "/" + relPath, relPath, nil
}
