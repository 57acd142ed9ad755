package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/quillhub/internal/telemetry/tracing"
)

type Kind string

const (
	KindAvatar   Kind = "avatars"
	KindFeatured Kind = "posts"
)

var ErrFileNotFound = errors.New("file not found")

// DiskStore keeps uploaded originals under rootPath/<kind>/<uuid><ext>.
// The returned reference is the path relative to rootPath.
type DiskStore struct {
	rootPath string
}

func NewDiskStore(rootPath string) (*DiskStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	for _, kind := range []Kind{KindAvatar, KindFeatured} {
		if err := os.MkdirAll(filepath.Join(rootPath, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", kind, err)
		}
	}
	return &DiskStore{rootPath: rootPath}, nil
}

func (ds *DiskStore) Save(ctx context.Context, kind Kind, format Format, content []byte) (_ string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("file.kind", string(kind)))
	span.SetAttributes(attribute.Int("file.size", len(content)))

	ref := string(kind) + "/" + uuid.NewString() + format.Extension()
	dst := filepath.Join(ds.rootPath, filepath.FromSlash(ref))

	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", ref, err)
	}

	log.Debugf("disk store: saved [%s] (%d bytes)", ref, len(content))
	return ref, nil
}

// Path resolves a reference to its location on disk, rejecting anything that
// would escape the root directory.
func (ds *DiskStore) Path(ref string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", ErrFileNotFound
	}
	full := filepath.Join(ds.rootPath, clean)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", ErrFileNotFound
	}
	return full, nil
}

func (ds *DiskStore) Delete(ctx context.Context, ref string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	path, err := ds.Path(ref)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
