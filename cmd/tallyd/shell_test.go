package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/x/receipt"
)

var (
	alice = tally.NewCondition("sigs", "ed25519", []byte("alice"))
	bob   = tally.NewCondition("sigs", "ed25519", []byte("bob"))
	carol = tally.NewCondition("sigs", "ed25519", []byte("carol"))
	dave  = tally.NewCondition("sigs", "ed25519", []byte("dave"))
)

func addrHex(c tally.Condition) string {
	return hex.EncodeToString(c.Address())
}

func writeGenesis(t *testing.T, members string) string {
	t.Helper()
	gen := fmt.Sprintf(`{
  "chain_id": "tally-test",
  "app_state": {
    "conf": {"receipt": {"owner": %q, "denom": {"native": "IOV"}}},
    "receipt": {"members": %s},
    "cash": [{"address": %q, "coins": [{"denom": "nIOV", "amount": "1000"}]}]
  }
}`, addrHex(alice), members, addrHex(dave))

	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(gen), 0600))
	return path
}

func defaultMembers() string {
	return fmt.Sprintf(`[{"address": %q, "weight": "1"}, {"address": %q, "weight": "3"}]`,
		addrHex(bob), addrHex(carol))
}

type outputRow struct {
	Line    int               `json:"line"`
	Code    uint32            `json:"code"`
	Log     string            `json:"log"`
	Data    string            `json:"data"`
	Tags    map[string]string `json:"tags"`
	Results []struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	} `json:"results"`
}

func runShell(t *testing.T, genesis string, input ...string) []outputRow {
	t.Helper()
	var logs, out bytes.Buffer
	cmd := newRootCmd(&logs)
	cmd.SetArgs([]string{"run", genesis, "--log-level", "error"})
	cmd.SetIn(strings.NewReader(strings.Join(input, "\n")))
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute(), logs.String())

	var rows []outputRow
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r outputRow
		require.NoError(t, dec.Decode(&r))
		rows = append(rows, r)
	}
	return rows
}

func TestShellDistribution(t *testing.T) {
	genesis := writeGenesis(t, defaultMembers())
	rows := runShell(t, genesis,
		fmt.Sprintf(`{"op": "deliver", "caller": %q, "path": "receipt/deposit", "msg": {"depositor": %q, "amount": "400"}}`,
			dave.String(), addrHex(dave)),
		"# comments and blank lines are skipped",
		"",
		fmt.Sprintf(`{"op": "query", "path": "/receipt/pending", "data": %q}`, addrHex(bob)),
		fmt.Sprintf(`{"op": "deliver", "caller": %q, "path": "receipt/claim", "msg": {}}`, bob.String()),
		fmt.Sprintf(`{"op": "deliver", "caller": %q, "path": "receipt/claim", "msg": {}}`, bob.String()),
		fmt.Sprintf(`{"op": "check", "caller": %q, "path": "receipt/claim"}`, carol.String()),
		`{"op": "query", "path": "/receipt/ledger"}`,
		fmt.Sprintf(`{"op": "query", "path": "/cash/balances", "data": %q}`, addrHex(bob)),
		fmt.Sprintf(`{"op": "query", "path": "/receipt/deposits", "data": %q}`, addrHex(dave)),
	)
	require.Len(t, rows, 8)

	deposit := rows[0]
	require.Equal(t, uint32(0), deposit.Code, deposit.Log)
	assert.Equal(t, 1, deposit.Line)
	assert.Equal(t, "receipt/deposit", deposit.Tags["action"])

	pending := rows[1]
	require.Equal(t, uint32(0), pending.Code, pending.Log)
	assert.Equal(t, 4, pending.Line)
	require.Len(t, pending.Results, 1)
	var p receipt.Pending
	require.NoError(t, json.Unmarshal(pending.Results[0].Value, &p))
	assert.Equal(t, "100", p.Amount.String())

	claim := rows[2]
	require.Equal(t, uint32(0), claim.Code, claim.Log)
	assert.Equal(t, "100", claim.Data)

	again := rows[3]
	assert.Equal(t, receipt.ErrNothingToClaim.ABCICode(), again.Code)

	check := rows[4]
	assert.Equal(t, uint32(0), check.Code, check.Log)

	ledger := rows[5]
	require.Len(t, ledger.Results, 1)
	var l receipt.Ledger
	require.NoError(t, json.Unmarshal(ledger.Results[0].Value, &l))
	assert.Equal(t, "400", l.TotalReceived.String())
	assert.Equal(t, "100", l.TotalClaimed.String())
	assert.Equal(t, "4", l.TotalWeight.String())

	balance := rows[6]
	require.Len(t, balance.Results, 1)
	assert.Contains(t, string(balance.Results[0].Value), `"amount":"100"`)

	deposits := rows[7]
	require.Equal(t, uint32(0), deposits.Code, deposits.Log)
	require.Len(t, deposits.Results, 1)
	var total receipt.DepositTotal
	require.NoError(t, json.Unmarshal(deposits.Results[0].Value, &total))
	assert.Equal(t, "400", total.Amount.String())
	assert.Equal(t, uint64(1), total.Count)
	assert.Equal(t, "nIOV", total.Denom)
}

func TestShellRejectsBadRequests(t *testing.T) {
	genesis := writeGenesis(t, defaultMembers())
	rows := runShell(t, genesis,
		`not json`,
		`{"op": "explode"}`,
		`{"op": "deliver", "path": "receipt/unknown", "msg": {}}`,
		`{"op": "deliver", "path": "receipt/claim", "msg": {}}`,
		fmt.Sprintf(`{"op": "deliver", "caller": %q, "path": "receipt/register", "msg": {"member": %q, "weight": "1"}}`,
			bob.String(), addrHex(dave)),
		`{"op": "query", "path": "/receipt/nothing"}`,
	)
	require.Len(t, rows, 6)
	assert.Equal(t, errors.ErrInput.ABCICode(), rows[0].Code)
	assert.Equal(t, errors.ErrInput.ABCICode(), rows[1].Code)
	assert.Equal(t, errors.ErrNotFound.ABCICode(), rows[2].Code)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), rows[3].Code)
	// only the owner registers members
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), rows[4].Code)
	assert.Equal(t, errors.ErrNotFound.ABCICode(), rows[5].Code)
}

func TestValidateCommand(t *testing.T) {
	var logs, out bytes.Buffer
	cmd := newRootCmd(&logs)
	cmd.SetArgs([]string{"validate", writeGenesis(t, defaultMembers())})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "tally-test is valid")

	cmd = newRootCmd(&logs)
	dup := fmt.Sprintf(`[{"address": %q, "weight": "1"}, {"address": %q, "weight": "2"}]`,
		addrHex(bob), addrHex(bob))
	cmd.SetArgs([]string{"validate", writeGenesis(t, dup)})
	cmd.SetOut(&out)
	err := cmd.Execute()
	assert.True(t, errors.ErrDuplicate.Is(err), "got %v", err)

	cmd = newRootCmd(&logs)
	cmd.SetArgs([]string{"validate", writeGenesis(t, defaultMembers()), "--log-level", "loud"})
	assert.Error(t, cmd.Execute())
}

func TestPathsCommand(t *testing.T) {
	var logs, out bytes.Buffer
	cmd := newRootCmd(&logs)
	cmd.SetArgs([]string{"paths"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	paths := strings.Fields(out.String())
	assert.Contains(t, paths, "cash/send")
	assert.Contains(t, paths, "receipt/claim")
	assert.Len(t, paths, 8)
}
