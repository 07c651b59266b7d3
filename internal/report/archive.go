package report

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-maturity/internal/storage"
)

// Archive keeps exported documents under reports/<owner>/<id>.<ext>.
type Archive struct {
	store storage.BlobStore
}

func NewArchive(store storage.BlobStore) *Archive {
	return &Archive{store: store}
}

var unsafeOwner = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func ownerPrefix(owner string) string {
	o := strings.Trim(unsafeOwner.ReplaceAllString(owner, "_"), ".")
	if o == "" {
		o = "_"
	}
	return "reports/" + o + "/"
}

// Save stores one document and returns its key.
func (a *Archive) Save(ctx context.Context, owner, id string, f Format, r io.Reader) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("archive: report id: %w", err)
	}
	return a.store.Put(ctx, ownerPrefix(owner)+id+"."+string(f), r)
}

func (a *Archive) List(ctx context.Context, owner string) ([]storage.Object, error) {
	return a.store.List(ctx, ownerPrefix(owner))
}

// Open returns one of owner's documents by file name (<id>.<ext>).
func (a *Archive) Open(ctx context.Context, owner, name string) (io.ReadCloser, Format, error) {
	id, ext, ok := strings.Cut(name, ".")
	if !ok {
		return nil, "", storage.ErrNotFound
	}
	f, err := ParseFormat(ext)
	if err != nil || string(f) != ext {
		return nil, "", storage.ErrNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", storage.ErrNotFound
	}
	rc, err := a.store.Get(ctx, ownerPrefix(owner)+name)
	return rc, f, err
}
