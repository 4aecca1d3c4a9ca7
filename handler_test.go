package tally

import (
	"testing"

	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/tallytest/assert"
)

func TestReadOptions(t *testing.T) {
	type conf struct {
		Name  string `json:"name"`
		Limit int    `json:"limit"`
	}

	cases := map[string]struct {
		opts    Options
		key     string
		want    conf
		wantErr *errors.Error
	}{
		"happy path": {
			opts: Options{"mod": []byte(`{"name": "x", "limit": 3}`)},
			key:  "mod",
			want: conf{Name: "x", Limit: 3},
		},
		"missing key is a noop": {
			opts: Options{"other": []byte(`{"name": "x"}`)},
			key:  "mod",
			want: conf{},
		},
		"invalid json": {
			opts:    Options{"mod": []byte(`{"name": `)},
			key:     "mod",
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got conf
			err := tc.opts.ReadOptions(tc.key, &got)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type recordInit struct {
	calls *[]string
	name  string
	err   error
}

func (r recordInit) FromGenesis(Options, KVStore) error {
	*r.calls = append(*r.calls, r.name)
	return r.err
}

func TestGenesisInitializers(t *testing.T) {
	var calls []string
	inits := GenesisInitializers{
		recordInit{calls: &calls, name: "a"},
		recordInit{calls: &calls, name: "b", err: errors.ErrState},
		recordInit{calls: &calls, name: "c"},
	}
	err := inits.FromGenesis(Options{}, nil)
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestDeliverResultTags(t *testing.T) {
	var res DeliverResult
	res.AddTag("action", "deposit")
	assert.Equal(t, 1, len(res.Tags))
	assert.Equal(t, []byte("action"), res.Tags[0].Key)
	assert.Equal(t, []byte("deposit"), res.Tags[0].Value)
}
