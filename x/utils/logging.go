package utils

import (
	"time"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging writes one entry per call with its duration in microseconds.
// Check is logged one level lower than Deliver: debug on success and info
// on failure, against info and error. Broken arithmetic invariants are
// always logged as errors.
type Logging struct{}

var _ tally.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx, next tally.Checker) (*tally.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logCall(ctx, time.Since(start), msg, err, true)
	return res, err
}

func (Logging) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx, next tally.Deliverer) (*tally.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logCall(ctx, time.Since(start), msg, err, false)
	return res, err
}

// logCall emits an entry even for an empty message, the key values carry
// the useful part.
func logCall(ctx tally.Context, took time.Duration, msg string, err error, dryRun bool) {
	logger := tally.GetLogger(ctx).With("duration", took/time.Microsecond)
	if err == nil {
		levelFor(logger, dryRun, false)(msg)
		return
	}

	logger = logger.With("err", err)
	if errors.IsInvariant(err) {
		logger.Error(msg, "invariant", true)
		return
	}
	levelFor(logger, dryRun, true)(msg)
}

func levelFor(logger log.Logger, dryRun, failed bool) func(string, ...interface{}) {
	switch {
	case failed && dryRun:
		return logger.Info
	case failed:
		return logger.Error
	case dryRun:
		return logger.Debug
	}
	return logger.Info
}
