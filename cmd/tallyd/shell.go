package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/app"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/x/cash"
	"github.com/tallyweave/tally/x/receipt"
)

const maxLineSize = 1 << 20

// request is one line of shell input.
type request struct {
	Op     string          `json:"op"`
	Caller tally.Condition `json:"caller"`
	Path   string          `json:"path"`
	Msg    json.RawMessage `json:"msg"`
	Data   string          `json:"data"`
}

// response is one line of shell output.
type response struct {
	Line    int               `json:"line"`
	Code    uint32            `json:"code"`
	Log     string            `json:"log,omitempty"`
	Data    string            `json:"data,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
	Height  int64             `json:"height,omitempty"`
	Results []queryRow        `json:"results,omitempty"`
}

type queryRow struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// queryModels knows how to decode the values returned by each query path.
var queryModels = map[string]func() tally.Persistent{
	"/cash/balances":    func() tally.Persistent { return &cash.Set{} },
	"/receipt/members":  func() tally.Persistent { return &receipt.Member{} },
	"/receipt/ledger":   func() tally.Persistent { return &receipt.Ledger{} },
	"/receipt/config":   func() tally.Persistent { return &receipt.Configuration{} },
	"/receipt/pending":  func() tally.Persistent { return &receipt.Pending{} },
	"/receipt/deposits": func() tally.Persistent { return &receipt.DepositTotal{} },
}

type shell struct {
	d     *app.Dispatcher
	codec *app.TxCodec
}

func newShell(d *app.Dispatcher, codec *app.TxCodec) *shell {
	return &shell{d: d, codec: codec}
}

// Run executes every request read from in and writes one response per
// request to out. Malformed requests produce an error response, only I/O
// failures stop the loop.
func (s *shell) Run(in io.Reader, out io.Writer) error {
	enc := json.NewEncoder(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var line int
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}
		res := s.execute(raw)
		res.Line = line
		if err := enc.Encode(res); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

func (s *shell) execute(raw []byte) response {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		return errResponse(errors.Wrapf(errors.ErrInput, "request: %s", err))
	}

	switch req.Op {
	case "check", "deliver":
		msg, err := s.codec.DecodeJSON(req.Path, req.Msg)
		if err != nil {
			return errResponse(err)
		}
		tx := s.codec.NewTx(msg)
		var res app.Result
		if req.Op == "check" {
			res = s.d.Check(req.Caller, tx)
		} else {
			res = s.d.Deliver(req.Caller, tx)
		}
		return callResponse(res)
	case "query":
		data, err := tally.ParseAddress(req.Data)
		if err != nil {
			return errResponse(err)
		}
		return s.query(req.Path, data)
	default:
		return errResponse(errors.Wrapf(errors.ErrInput, "unknown op %q", req.Op))
	}
}

func (s *shell) query(path string, data []byte) response {
	qres := s.d.Query(path, data)
	if qres.Code != errors.SuccessCode {
		return response{Code: qres.Code, Log: qres.Log}
	}
	models, err := qres.Models()
	if err != nil {
		return errResponse(err)
	}

	base := strings.SplitN(path, "?", 2)[0]
	res := response{Height: qres.Height, Results: make([]queryRow, 0, len(models))}
	for _, m := range models {
		row := queryRow{Key: formatKey(m.Key), Value: hex.EncodeToString(m.Value)}
		if newModel, ok := queryModels[base]; ok {
			obj := newModel()
			if err := obj.Unmarshal(m.Value); err != nil {
				return errResponse(errors.Wrap(errors.ErrModel, err.Error()))
			}
			row.Value = obj
		}
		res.Results = append(res.Results, row)
	}
	return res
}

func callResponse(res app.Result) response {
	out := response{Code: res.Code, Log: res.Log, Data: string(res.Data)}
	if len(res.Tags) > 0 {
		out.Tags = make(map[string]string, len(res.Tags))
		for _, t := range res.Tags {
			out.Tags[string(t.Key)] = string(t.Value)
		}
	}
	return out
}

func errResponse(err error) response {
	code, log := errors.ResultInfo(err, false)
	return response{Code: code, Log: log}
}

// formatKey keeps a readable bucket prefix and hex encodes the rest.
func formatKey(key []byte) string {
	if i := bytes.IndexByte(key, ':'); i > 0 {
		return string(key[:i+1]) + hex.EncodeToString(key[i+1:])
	}
	return string(key)
}
