package zonefile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/nricciar/em-dns-manager/internal/zone"
)

const (
	fileSuffix = "zone"
	deletedDir = "deleted"
)

// Store persists zones as files under a root directory. Each zone is named
// after its origin, e.g. "example.com.zone"; deleted zones are moved into
// the "deleted" subdirectory rather than removed.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, deletedDir), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create zone directory")
	}

	return &Store{root: root}, nil
}

func (s *Store) path(origin string) string {
	return filepath.Join(s.root, origin+fileSuffix)
}

// LoadAll reads every zone file under the root directory. Files in the
// deleted subdirectory are skipped.
func (s *Store) LoadAll() ([]*zone.Zone, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read zone directory")
	}

	var zones []*zone.Zone

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}

		z, err := s.load(filepath.Join(s.root, entry.Name()))
		if err != nil {
			return nil, err
		}

		log.Debug().
			Str("zone_name", z.Origin).
			Int("records", len(z.Records)).
			Msg("loaded zone")

		zones = append(zones, z)
	}

	return zones, nil
}

func (s *Store) load(path string) (*zone.Zone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open zone file %s", path)
	}
	defer f.Close()

	z, err := Unmarshal(f)

	return z, errors.Wrapf(err, "failed to parse zone file %s", path)
}

// Save rewrites the zone's file. The write goes to a temporary file first
// so a crash mid-write never leaves a truncated zone behind.
func (s *Store) Save(z *zone.Zone) error {
	tmp, err := os.CreateTemp(s.root, "."+z.Origin+"*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp zone file")
	}

	if err := Marshal(tmp, z); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return errors.Wrap(err, "failed to close temp zone file")
	}

	if err := os.Rename(tmp.Name(), s.path(z.Origin)); err != nil {
		os.Remove(tmp.Name())

		return errors.Wrap(err, "failed to replace zone file")
	}

	return nil
}

// Delete relocates the zone's file into the deleted subdirectory.
func (s *Store) Delete(origin string) error {
	err := os.Rename(s.path(origin), filepath.Join(s.root, deletedDir, origin+fileSuffix))

	return errors.Wrapf(err, "failed to relocate zone file for %s", origin)
}
