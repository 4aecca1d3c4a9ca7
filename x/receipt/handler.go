package receipt

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/gconf"
	"github.com/tallyweave/tally/num"
	"github.com/tallyweave/tally/x"
)

// RegisterQuery registers the receipt queries.
func RegisterQuery(qr tally.QueryRouter) {
	NewRegistry().register("receipt/members", qr)
	qr.Register("/receipt/ledger", ledgerQuery{})
	qr.Register("/receipt/config", configQuery{})
	qr.Register("/receipt/pending", pendingQuery{registry: NewRegistry()})
	NewDeposits().register("receipt/deposits", qr)
}

// RegisterRoutes registers the receipt command handlers. metrics may be nil.
func RegisterRoutes(r tally.Registry, auth x.Authenticator, bank Bank, metrics *Metrics) {
	b := base{auth: auth, registry: NewRegistry(), deposits: NewDeposits(), bank: bank}
	handle := func(path string, h tally.Handler) {
		r.Handle(path, instrumented{op: path, next: h, metrics: metrics})
	}
	handle(pathRegisterMsg, registerHandler{b})
	handle(pathReweightMsg, reweightHandler{b})
	handle(pathDeregisterMsg, deregisterHandler{b})
	handle(pathDepositMsg, depositHandler{b})
	handle(pathClaimMsg, claimHandler{b})
	handle(pathSetPhaseMsg, setPhaseHandler{b})
	handle(pathUpdateOwnerMsg, gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth))
}

// base holds what all receipt handlers share.
type base struct {
	auth     x.Authenticator
	registry *Registry
	deposits *Deposits
	bank     Bank
}

// load returns the configuration and the ledger.
func (b base) load(db tally.ReadOnlyKVStore) (*Configuration, *Ledger, error) {
	conf, err := LoadConfig(db)
	if err != nil {
		return nil, nil, err
	}
	ledger, err := LoadLedger(db)
	if err != nil {
		return nil, nil, err
	}
	return conf, ledger, nil
}

func (b base) requireOwner(ctx tally.Context, conf *Configuration) error {
	if !b.auth.HasAddress(ctx, conf.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	return nil
}

// membership loads the state for a member change. Only the owner can change
// members and only while the ledger is open.
func (b base) membership(ctx tally.Context, db tally.ReadOnlyKVStore) (*Configuration, *Ledger, error) {
	conf, ledger, err := b.load(db)
	if err != nil {
		return nil, nil, err
	}
	if err := b.requireOwner(ctx, conf); err != nil {
		return nil, nil, err
	}
	if ledger.Phase != PhaseOpen {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "registration is closed")
	}
	return conf, ledger, nil
}

// atomically runs fn on a cache of db when possible. The cache is written
// back only if fn succeeds.
func atomically(db tally.KVStore, fn func(tally.KVStore) error) error {
	cstore, ok := db.(tally.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

type registerHandler struct {
	base
}

func (h registerHandler) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	msg, ledger, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.registry.CanRegister(db, ledger, msg.Member, msg.Weight); err != nil {
		return nil, err
	}
	return &tally.CheckResult{}, nil
}

func (h registerHandler) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	msg, ledger, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	err = atomically(db, func(db tally.KVStore) error {
		if err := h.registry.Register(db, ledger, msg.Member, msg.Weight); err != nil {
			return err
		}
		return SaveLedger(db, ledger)
	})
	if err != nil {
		return nil, err
	}
	tally.GetLogger(ctx).Info("member registered", "member", msg.Member, "weight", msg.Weight)
	res := &tally.DeliverResult{}
	res.AddTag("receipt.member", msg.Member.String())
	return res, nil
}

func (h registerHandler) validate(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*RegisterMsg, *Ledger, error) {
	var msg RegisterMsg
	if err := tally.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	_, ledger, err := h.membership(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	return &msg, ledger, nil
}

type reweightHandler struct {
	base
}

func (h reweightHandler) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.registry.Get(db, msg.Member); err != nil {
		return nil, err
	}
	return &tally.CheckResult{}, nil
}

func (h reweightHandler) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	msg, ledger, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	var settled num.Uint
	err = atomically(db, func(db tally.KVStore) error {
		var err error
		if settled, err = h.registry.Reweight(db, ledger, msg.Member, msg.Weight); err != nil {
			return err
		}
		return SaveLedger(db, ledger)
	})
	if err != nil {
		return nil, err
	}
	tally.GetLogger(ctx).Info("member reweighted",
		"member", msg.Member, "weight", msg.Weight, "settled", settled)
	res := &tally.DeliverResult{Data: []byte(settled.String())}
	res.AddTag("receipt.member", msg.Member.String())
	return res, nil
}

func (h reweightHandler) validate(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*ReweightMsg, *Ledger, error) {
	var msg ReweightMsg
	if err := tally.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	_, ledger, err := h.membership(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	return &msg, ledger, nil
}

type deregisterHandler struct {
	base
}

func (h deregisterHandler) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	msg, _, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.registry.Get(db, msg.Member); err != nil {
		return nil, err
	}
	return &tally.CheckResult{}, nil
}

func (h deregisterHandler) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	msg, conf, ledger, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	var payout num.Uint
	err = atomically(db, func(db tally.KVStore) error {
		var err error
		if payout, err = h.registry.Deregister(db, ledger, msg.Member); err != nil {
			return err
		}
		if !payout.IsZero() {
			if err := ledger.recordClaim(payout); err != nil {
				return err
			}
			if err := h.bank.Transfer(db, conf.Denom, Treasury, msg.Member, payout); err != nil {
				return err
			}
		}
		return SaveLedger(db, ledger)
	})
	if err != nil {
		return nil, err
	}
	tally.GetLogger(ctx).Info("member deregistered", "member", msg.Member, "payout", payout)
	res := &tally.DeliverResult{Data: []byte(payout.String())}
	res.AddTag("receipt.member", msg.Member.String())
	return res, nil
}

func (h deregisterHandler) validate(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*DeregisterMsg, *Configuration, *Ledger, error) {
	var msg DeregisterMsg
	if err := tally.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	conf, ledger, err := h.membership(ctx, db)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, conf, ledger, nil
}

type depositHandler struct {
	base
}

func (h depositHandler) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &tally.CheckResult{}, nil
}

func (h depositHandler) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	msg, conf, ledger, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	err = atomically(db, func(db tally.KVStore) error {
		if err := ledger.Deposit(msg.Amount); err != nil {
			return err
		}
		if err := h.bank.Transfer(db, conf.Denom, msg.Depositor, Treasury, msg.Amount); err != nil {
			return err
		}
		if err := h.deposits.Record(db, msg.Depositor, conf.Denom, msg.Amount); err != nil {
			return err
		}
		return SaveLedger(db, ledger)
	})
	if err != nil {
		return nil, err
	}
	tally.GetLogger(ctx).Info("deposit received",
		"depositor", msg.Depositor, "amount", msg.Amount, "accumulator", ledger.Accumulator)
	res := &tally.DeliverResult{}
	res.AddTag("receipt.depositor", msg.Depositor.String())
	return res, nil
}

func (h depositHandler) validate(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*DepositMsg, *Configuration, *Ledger, error) {
	var msg DepositMsg
	if err := tally.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Depositor) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "depositor signature required")
	}
	conf, ledger, err := h.load(db)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, conf, ledger, nil
}

type claimHandler struct {
	base
}

func (h claimHandler) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	claimant, _, ledger, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	m, err := h.registry.Get(db, claimant)
	if err != nil {
		return nil, err
	}
	pending, err := ledger.Pending(m)
	if err != nil {
		return nil, err
	}
	if pending.IsZero() {
		return nil, errors.Wrap(ErrNothingToClaim, "no entitlement since last claim")
	}
	return &tally.CheckResult{}, nil
}

func (h claimHandler) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	claimant, conf, ledger, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	var payout num.Uint
	err = atomically(db, func(db tally.KVStore) error {
		m, err := h.registry.Get(db, claimant)
		if err != nil {
			return err
		}
		owed, err := ledger.Settle(m)
		if err != nil {
			return err
		}
		if payout, err = owed.Add(m.Unclaimed); err != nil {
			return errors.Wrap(err, "payout")
		}
		if payout.IsZero() {
			return errors.Wrap(ErrNothingToClaim, "no entitlement since last claim")
		}
		m.Unclaimed = num.Zero()
		if err := h.registry.Save(db, claimant, m); err != nil {
			return err
		}
		if err := ledger.recordClaim(payout); err != nil {
			return err
		}
		if err := h.bank.Transfer(db, conf.Denom, Treasury, claimant, payout); err != nil {
			return err
		}
		return SaveLedger(db, ledger)
	})
	if err != nil {
		return nil, err
	}
	tally.GetLogger(ctx).Info("entitlement claimed", "member", claimant, "amount", payout)
	res := &tally.DeliverResult{Data: []byte(payout.String())}
	res.AddTag("receipt.member", claimant.String())
	return res, nil
}

// validate returns the claimant, which is always the main signer.
func (h claimHandler) validate(ctx tally.Context, db tally.KVStore, tx tally.Tx) (tally.Address, *Configuration, *Ledger, error) {
	var msg ClaimMsg
	if err := tally.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "claimant signature required")
	}
	conf, ledger, err := h.load(db)
	if err != nil {
		return nil, nil, nil, err
	}
	return signer.Address(), conf, ledger, nil
}

type setPhaseHandler struct {
	base
}

func (h setPhaseHandler) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &tally.CheckResult{}, nil
}

func (h setPhaseHandler) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	msg, ledger, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	ledger.Phase = msg.Phase
	if err := SaveLedger(db, ledger); err != nil {
		return nil, err
	}
	tally.GetLogger(ctx).Info("phase changed", "phase", msg.Phase)
	return &tally.DeliverResult{}, nil
}

func (h setPhaseHandler) validate(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*SetPhaseMsg, *Ledger, error) {
	var msg SetPhaseMsg
	if err := tally.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, ledger, err := h.load(db)
	if err != nil {
		return nil, nil, err
	}
	if err := h.requireOwner(ctx, conf); err != nil {
		return nil, nil, err
	}
	switch {
	case !conf.Phased:
		return nil, nil, errors.Wrap(ErrInvalidTransition, "ledger is not phased")
	case msg.Phase == ledger.Phase:
		return nil, nil, errors.Wrapf(ErrInvalidTransition, "already %s", ledger.Phase)
	case ledger.Phase == PhaseClosed:
		return nil, nil, errors.Wrap(ErrInvalidTransition, "closed ledger cannot be reopened")
	}
	return &msg, ledger, nil
}
