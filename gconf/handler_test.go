package gconf

import (
	"context"
	"testing"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/store"
	"github.com/tallyweave/tally/tallytest"
	"github.com/tallyweave/tally/tallytest/assert"
)

type patchMsg struct {
	tally.Msg
	patch *testConfig
}

func (m *patchMsg) Path() string             { return "test/patch" }
func (m *patchMsg) Validate() error          { return nil }
func (m *patchMsg) ConfigPatch() OwnedConfig { return m.patch }

var _ Patcher = (*patchMsg)(nil)

func TestUpdateConfigurationHandler(t *testing.T) {
	owner := tallytest.NewCondition()
	newOwner := tallytest.NewCondition()
	stranger := tallytest.NewCondition()

	cases := map[string]struct {
		initial *testConfig
		signer  tally.Condition
		msg     tally.Msg
		wantErr *errors.Error
		want    testConfig
	}{
		"owner updates a field": {
			initial: &testConfig{Owner: owner.Address(), Name: "a", Limit: 1},
			signer:  owner,
			msg:     &patchMsg{patch: &testConfig{Limit: 5}},
			want:    testConfig{Owner: owner.Address(), Name: "a", Limit: 5},
		},
		"owner hands over ownership": {
			initial: &testConfig{Owner: owner.Address(), Name: "a"},
			signer:  owner,
			msg:     &patchMsg{patch: &testConfig{Owner: newOwner.Address()}},
			want:    testConfig{Owner: newOwner.Address(), Name: "a"},
		},
		"not the owner": {
			initial: &testConfig{Owner: owner.Address(), Name: "a"},
			signer:  stranger,
			msg:     &patchMsg{patch: &testConfig{Name: "b"}},
			wantErr: errors.ErrUnauthorized,
			want:    testConfig{Owner: owner.Address(), Name: "a"},
		},
		"no owner": {
			initial: &testConfig{Name: "a"},
			signer:  owner,
			msg:     &patchMsg{patch: &testConfig{Name: "b"}},
			wantErr: errors.ErrUnauthorized,
			want:    testConfig{Name: "a"},
		},
		"missing configuration cannot be created": {
			signer:  owner,
			msg:     &patchMsg{patch: &testConfig{Owner: owner.Address()}},
			wantErr: errors.ErrUnauthorized,
		},
		"invalid result is rejected": {
			initial: &testConfig{Owner: owner.Address(), Limit: 1},
			signer:  owner,
			msg:     &patchMsg{patch: &testConfig{Limit: -1}},
			wantErr: errors.ErrModel,
			want:    testConfig{Owner: owner.Address(), Limit: 1},
		},
		"not a patch message": {
			initial: &testConfig{Owner: owner.Address()},
			signer:  owner,
			msg:     &tallytest.Msg{RoutePath: "test/other"},
			wantErr: errors.ErrType,
			want:    testConfig{Owner: owner.Address()},
		},
		"nil payload": {
			initial: &testConfig{Owner: owner.Address()},
			signer:  owner,
			msg:     &patchMsg{},
			wantErr: errors.ErrState,
			want:    testConfig{Owner: owner.Address()},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if tc.initial != nil {
				assert.Nil(t, Save(db, "mypkg", tc.initial))
			}

			auth := &tallytest.Auth{Signer: tc.signer}
			h := NewUpdateConfigurationHandler("mypkg", &testConfig{}, auth)
			tx := &tallytest.Tx{Msg: tc.msg}

			_, err := h.Deliver(context.Background(), db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				assert.Nil(t, err)
			}

			if tc.initial == nil {
				return
			}
			var got testConfig
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, tc.want, got)
		})
	}
}
