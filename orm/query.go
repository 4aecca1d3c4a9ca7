package orm

import (
	"strconv"
	"strings"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
)

const (
	// DefaultPageLimit is used when a page request carries no limit.
	DefaultPageLimit = 10
	// MaxPageLimit caps the number of entries returned by a single page.
	MaxPageLimit = 30
)

// PageRequest selects a window of a bucket in ascending key order.
type PageRequest struct {
	// StartAfter is the exclusive lower bound (bucket key, without prefix).
	// Empty means from the beginning.
	StartAfter []byte
	// Limit is the maximum number of entries. Zero means DefaultPageLimit,
	// anything above MaxPageLimit is capped.
	Limit int
}

func (r PageRequest) limit() int {
	switch {
	case r.Limit <= 0:
		return DefaultPageLimit
	case r.Limit > MaxPageLimit:
		return MaxPageLimit
	default:
		return r.Limit
	}
}

// PageMod returns the query mod for a page request with the given limit.
func PageMod(limit int) string {
	if limit <= 0 {
		return tally.PageQueryMod
	}
	return tally.PageQueryMod + "=" + strconv.Itoa(limit)
}

// IsPageMod returns true if the mod is a page query, with or without limit.
func IsPageMod(mod string) bool {
	return mod == tally.PageQueryMod || strings.HasPrefix(mod, tally.PageQueryMod+"=")
}

// ParsePageMod decodes a page query. The limit is carried in the mod
// ("page=20") and the start_after key in the query data.
func ParsePageMod(mod string, data []byte) (PageRequest, error) {
	req := PageRequest{StartAfter: data}
	if mod == tally.PageQueryMod {
		return req, nil
	}
	raw := strings.TrimPrefix(mod, tally.PageQueryMod+"=")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return req, errors.Wrapf(errors.ErrInput, "invalid page limit: %q", raw)
	}
	req.Limit = n
	return req, nil
}

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr tally.Iterator) []tally.Model {
	return consumeN(itr, -1)
}

// consumeN reads at most n entries, or all of them if n is negative, and
// closes the iterator.
func consumeN(itr tally.Iterator, n int) []tally.Model {
	defer itr.Close()

	res := []tally.Model{}
	for ; itr.Valid() && n != 0; itr.Next() {
		res = append(res, tally.Model{Key: itr.Key(), Value: itr.Value()})
		n--
	}
	return res
}

func queryPrefix(db tally.ReadOnlyKVStore, prefix []byte) ([]tally.Model, error) {
	iter, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(iter), nil
}

// prefixEnd returns the smallest key greater than every key with the
// given prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	// all bytes were 0xff
	return nil
}
