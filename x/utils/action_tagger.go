package utils

import (
	"github.com/tallyweave/tally"
)

// ActionKey is the tag key under which ActionTagger records the path of
// every delivered message.
const ActionKey = "action"

// ActionTagger tags successful deliveries with action=<message path>, so
// that a host can index calls by kind.
type ActionTagger struct{}

var _ tally.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx, next tally.Checker) (*tally.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx, next tally.Deliverer) (*tally.DeliverResult, error) {
	// Read the path up front, an undecodable message never reaches next.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.AddTag(ActionKey, msg.Path())
	return res, nil
}
