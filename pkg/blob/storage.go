package blob

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage is the filesystem-backed blob store for a single workspace
// (_examples/original_source/src/blobs.rs's BlobStorage).
type Storage struct {
	path string
}

// New returns a Storage rooted at path, which must already exist
// (pkg/paths.BlobDir creates it).
func New(path string) *Storage {
	return &Storage{path: path}
}

func (s *Storage) Path() string { return s.path }

func (s *Storage) join(id string) (string, error) {
	if !ValidID(id) {
		return "", fmt.Errorf("blob id contains invalid characters")
	}
	return filepath.Join(s.path, id), nil
}

// Load reads the blob named id.
func (s *Storage) Load(id string) (Blob, error) {
	path, err := s.join(id)
	if err != nil {
		return Blob{}, err
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return Blob{}, fmt.Errorf("failed to read blob: %w", err)
	}

	return Blob{ID: id, Bytes: bytes}, nil
}

// Save writes blob to disk under its own hash-derived id.
func (s *Storage) Save(b Blob) error {
	path, err := s.join(b.ID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b.Bytes, 0o600); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}

// Delete removes the blob named id.
func (s *Storage) Delete(id string) error {
	path, err := s.join(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// List returns every blob id currently on disk.
func (s *Storage) List() ([]string, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ids = append(ids, e.Name())
	}
	return ids, nil
}

// Stat returns the size in bytes of the blob named id.
func (s *Storage) Stat(id string) (int64, error) {
	path, err := s.join(id)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat blob: %w", err)
	}
	return info.Size(), nil
}

// Status classifies a blob found during Fsck.
type Status int

const (
	// Valid: the file's id matches the hash of its contents, and something
	// in the entity store references it.
	Valid Status = iota
	// Dangling: the hash is correct but nothing references the blob.
	Dangling
	// Corrupted: the filename does not match the blake2b hash of its
	// contents — on-disk bitrot or a hand-edited file.
	Corrupted
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case Dangling:
		return "dangling"
	case Corrupted:
		return "corrupted"
	default:
		return "unknown"
	}
}

// Report is one line of Fsck output.
type Report struct {
	ID     string
	Status Status
}

// Fsck walks every blob on disk, recomputes its hash, and classifies it as
// Valid, Dangling (not referenced by referenced, the id set derived from a
// scan of the entity store's image rows) or Corrupted (recomputed hash
// doesn't match the filename).
func (s *Storage) Fsck(referenced map[string]bool) ([]Report, error) {
	ids, err := s.List()
	if err != nil {
		return nil, err
	}

	var reports []Report
	for _, id := range ids {
		b, err := s.Load(id)
		if err != nil {
			reports = append(reports, Report{ID: id, Status: Corrupted})
			continue
		}

		if Hash(b.Bytes) != id {
			reports = append(reports, Report{ID: id, Status: Corrupted})
			continue
		}

		if referenced[id] {
			reports = append(reports, Report{ID: id, Status: Valid})
		} else {
			reports = append(reports, Report{ID: id, Status: Dangling})
		}
	}

	return reports, nil
}

// Gc deletes every report classified Dangling, and additionally Corrupted
// ones when all is true (`fsck --gc` vs `fsck --gc-all`).
func (s *Storage) Gc(reports []Report, all bool) (int, error) {
	var deleted int
	for _, r := range reports {
		if r.Status == Dangling || (all && r.Status == Corrupted) {
			if err := s.Delete(r.ID); err != nil {
				return deleted, err
			}
			deleted++
		}
	}
	return deleted, nil
}
