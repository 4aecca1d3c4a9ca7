package gconf

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
)

// ReadStore is the read half of a store this package needs.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store adds the single write operation Save uses.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is what Save accepts.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is an extension's singleton settings object.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

// Key is the store key of the configuration owned by pkg.
func Key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save stores src as the configuration of pkg. An invalid src is rejected
// without touching the store.
func Save(db Store, pkg string, src ValidMarshaler) error {
	key := Key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", key)
	}
	return db.Set(key, raw)
}

// Load fills dst with the configuration of pkg, failing with ErrNotFound
// when none was saved.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	key := Key(pkg)
	switch raw, err := db.Get(key); {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	default:
		if err := dst.Unmarshal(raw); err != nil {
			return errors.Wrapf(errors.ErrModel, "unmarshal: key %q: %s", key, err)
		}
		return nil
	}
}

// InitConfig reads the genesis section conf.<pkg> into conf and saves it.
// A missing section is ErrNotFound.
func InitConfig(db Store, opts tally.Options, pkg string, conf Configuration) error {
	var sections tally.Options
	if err := opts.ReadOptions("conf", &sections); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if _, ok := sections[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := sections.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read configuration for %s", pkg)
	}
	return errors.Wrapf(Save(db, pkg, conf), "save configuration for %s", pkg)
}
