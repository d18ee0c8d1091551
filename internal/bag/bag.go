// Package bag persists the identifier map (original name to short name)
// between runs.
package bag

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Backend names accepted by NewStore.
const (
	BackendJSON = "json"
	BackendBolt = "bolt"
)

const bucketIdentifiers = "identifiers"

// ErrUnknownBackend is returned by NewStore for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown bag backend")

// Store loads and saves an identifier map.
type Store interface {
	Load() (map[string]string, error)
	Save(map[string]string) error
	Path() string
}

// NewStore returns the store for backend at path. An empty backend means
// JSON.
func NewStore(backend, path string) (Store, error) {
	switch backend {
	case "", BackendJSON:
		return NewFileStore(path), nil
	case BackendBolt:
		return NewBoltStore(path), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// FileStore keeps the map as a JSON object.
type FileStore struct {
	path string
}

// NewFileStore returns a JSON store at path.
func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

func (s *FileStore) Path() string { return s.path }

// Load reads the map. A missing file is an empty map.
func (s *FileStore) Load() (map[string]string, error) {
	m := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading bag %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error decoding bag %s: %w", s.path, err)
	}
	return m, nil
}

// Save replaces the file with m.
func (s *FileStore) Save(m map[string]string) error {
	if m == nil {
		m = map[string]string{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding bag: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("error creating directory for bag %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("error writing bag %s: %w", s.path, err)
	}
	return nil
}

// BoltStore keeps the map in the "identifiers" bucket of a bbolt
// database. The database is opened for each operation, so several
// processes can share it one at a time.
type BoltStore struct {
	path string
}

// NewBoltStore returns a bbolt store at path.
func NewBoltStore(path string) *BoltStore { return &BoltStore{path: path} }

func (s *BoltStore) Path() string { return s.path }

func (s *BoltStore) open() (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, fmt.Errorf("error creating directory for bag %s: %w", s.path, err)
	}
	db, err := bolt.Open(s.path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("error opening bag %s: %w", s.path, err)
	}
	return db, nil
}

// Load reads the map. A missing database is an empty map.
func (s *BoltStore) Load() (map[string]string, error) {
	m := make(map[string]string)
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketIdentifiers))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			m[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error reading bag %s: %w", s.path, err)
	}
	return m, nil
}

// Save replaces the bucket contents with m.
func (s *BoltStore) Save(m map[string]string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(bucketIdentifiers)) != nil {
			if err := tx.DeleteBucket([]byte(bucketIdentifiers)); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket([]byte(bucketIdentifiers))
		if err != nil {
			return err
		}
		for k, v := range m {
			if err := b.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error writing bag %s: %w", s.path, err)
	}
	return nil
}

// Reverse looks up the original names that were given short. More than
// one is only possible in a corrupted map.
func Reverse(m map[string]string, short string) []string {
	var out []string
	for orig, s := range m {
		if s == short {
			out = append(out, orig)
		}
	}
	sort.Strings(out)
	return out
}
