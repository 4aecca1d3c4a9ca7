package app

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/libs/common"
)

var resultCodec = amino.NewCodec()

// Result is what the host gets back from Check and Deliver.
type Result struct {
	Code uint32          `json:"code"`
	Log  string          `json:"log,omitempty"`
	Data []byte          `json:"data,omitempty"`
	Tags []common.KVPair `json:"tags,omitempty"`
}

// IsOK returns true if the call succeeded.
func (r Result) IsOK() bool {
	return r.Code == errors.SuccessCode
}

// QueryResult holds the keys and values returned by a query, each as a
// serialized ResultSet.
type QueryResult struct {
	Code   uint32 `json:"code"`
	Log    string `json:"log,omitempty"`
	Height int64  `json:"height"`
	Key    []byte `json:"key,omitempty"`
	Value  []byte `json:"value,omitempty"`
}

// Models joins the key and value sets back into models.
func (q QueryResult) Models() ([]tally.Model, error) {
	var keys, values ResultSet
	if err := keys.Unmarshal(q.Key); err != nil {
		return nil, err
	}
	if err := values.Unmarshal(q.Value); err != nil {
		return nil, err
	}
	return JoinResults(&keys, &values)
}

// resultFromError redacts recovered panics and errors without a code
// unless debug is set.
func resultFromError(err error, debug bool) Result {
	code, log := errors.ResultInfo(errors.Redact(err, debug), debug)
	return Result{Code: code, Log: log}
}

func queryError(err error, debug bool) QueryResult {
	code, log := errors.ResultInfo(errors.Redact(err, debug), debug)
	return QueryResult{Code: code, Log: log}
}

// ResultSet is a list of raw keys or values.
type ResultSet struct {
	Results [][]byte
}

var _ tally.Persistent = (*ResultSet)(nil)

func (r *ResultSet) Marshal() ([]byte, error) {
	return resultCodec.MarshalBinaryBare(r)
}

// Unmarshal of an empty input yields an empty set.
func (r *ResultSet) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		r.Results = nil
		return nil
	}
	return resultCodec.UnmarshalBinaryBare(raw, r)
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []tally.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []tally.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]tally.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrap(errors.ErrState, "mismatched result set size")
	}
	mods := make([]tally.Model, len(kref))
	for i := range mods {
		mods[i] = tally.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}
