package orm

import (
	"encoding/binary"

	"github.com/tallyweave/tally/errors"
)

// counter is a minimal model used across the orm tests.
type counter struct {
	Count uint64
}

var _ Model = (*counter)(nil)

func (c *counter) Marshal() ([]byte, error) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, c.Count)
	return raw, nil
}

func (c *counter) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrap(errors.ErrInput, "counter must be 8 bytes")
	}
	c.Count = binary.BigEndian.Uint64(raw)
	return nil
}

func (c *counter) Validate() error {
	if c.Count == 0 {
		return errors.Wrap(errors.ErrEmpty, "count")
	}
	return nil
}
