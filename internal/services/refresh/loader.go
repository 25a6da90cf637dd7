package refresh

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/models"
)

// FileLoader reads a watchlist from a local NDJSON file, one entity per
// line. Used for local development and tests.
type FileLoader struct {
	source models.SourceList
	path   string
}

// NewFileLoader creates a loader for one source list backed by a file.
func NewFileLoader(source models.SourceList, path string) *FileLoader {
	return &FileLoader{source: source, path: path}
}

func (l *FileLoader) Source() models.SourceList {
	return l.source
}

func (l *FileLoader) Load(ctx context.Context) ([]*models.Entity, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist file: %w", err)
	}
	defer f.Close()

	return decodeEntities(ctx, f, l.source)
}

// ObjectLoader reads a watchlist from an object store bucket/key in
// NDJSON form.
type ObjectLoader struct {
	source models.SourceList
	store  interfaces.ObjectStore
	bucket string
	key    string
}

// NewObjectLoader creates a loader for one source list backed by an
// object store.
func NewObjectLoader(source models.SourceList, store interfaces.ObjectStore, bucket, key string) *ObjectLoader {
	return &ObjectLoader{source: source, store: store, bucket: bucket, key: key}
}

func (l *ObjectLoader) Source() models.SourceList {
	return l.source
}

func (l *ObjectLoader) Load(ctx context.Context) ([]*models.Entity, error) {
	rc, err := l.store.Read(ctx, l.bucket, l.key)
	if err != nil {
		return nil, fmt.Errorf("read watchlist object: %w", err)
	}
	defer rc.Close()

	return decodeEntities(ctx, rc, l.source)
}

// decodeEntities parses NDJSON entities, stamping the source on each.
// Blank lines are skipped; a malformed line fails the whole load so a
// truncated upstream file never silently replaces a good snapshot.
func decodeEntities(ctx context.Context, r io.Reader, source models.SourceList) ([]*models.Entity, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var entities []*models.Entity
	line := 0
	for scanner.Scan() {
		line++
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		raw := scanner.Bytes()
		if isBlank(raw) {
			continue
		}
		var e models.Entity
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e.Source = source
		entities = append(entities, &e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan watchlist: %w", err)
	}
	return entities, nil
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\r' {
			return false
		}
	}
	return true
}
