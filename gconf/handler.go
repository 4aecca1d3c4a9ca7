package gconf

import (
	"reflect"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/x"
)

// OwnedConfig is a configuration that only its owner may change.
type OwnedConfig interface {
	Configuration
	GetOwner() tally.Address
}

// Patcher is a message carrying a partial configuration of the stored
// type. Its zero fields leave the stored values untouched.
type Patcher interface {
	tally.Msg
	ConfigPatch() OwnedConfig
}

// UpdateConfigurationHandler applies Patcher messages signed by the owner
// of the stored configuration. It never creates a configuration, that
// happens only at genesis.
type UpdateConfigurationHandler struct {
	pkg   string
	proto OwnedConfig
	auth  x.Authenticator
}

var _ tally.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler serves the configuration of pkg. proto
// must be a pointer to the stored configuration type.
func NewUpdateConfigurationHandler(pkg string, proto OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{pkg: pkg, proto: proto, auth: auth}
}

func (h UpdateConfigurationHandler) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	return &tally.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	tally.GetLogger(ctx).Info("configuration updated", "pkg", h.pkg)
	return &tally.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) update(ctx tally.Context, db tally.KVStore, tx tally.Tx) error {
	current, err := h.loadOwned(ctx, db)
	if err != nil {
		return err
	}
	change, err := patchPayload(tx)
	if err != nil {
		return errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(current, change); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}
	return errors.Wrap(Save(db, h.pkg, current), "cannot save updated config")
}

// loadOwned loads a fresh copy of the stored configuration and checks the
// owner signed the call.
func (h UpdateConfigurationHandler) loadOwned(ctx tally.Context, db tally.KVStore) (OwnedConfig, error) {
	conf := reflect.New(reflect.TypeOf(h.proto).Elem()).Interface().(OwnedConfig)
	err := Load(db, h.pkg, conf)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(errors.ErrUnauthorized, "configuration does not exist and cannot be initialized")
	case err != nil:
		return nil, errors.Wrap(err, "load current configuration")
	}

	owner := conf.GetOwner()
	if owner == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
	}
	return conf, nil
}

// patch copies every non zero field of change into conf. Both must be
// pointers to the same struct type.
func patch(conf, change OwnedConfig) error {
	if reflect.TypeOf(conf) != reflect.TypeOf(change) {
		return errors.Wrap(errors.ErrMsg, "config in message doesn't match store")
	}
	dst := reflect.ValueOf(conf).Elem()
	src := reflect.ValueOf(change).Elem()
	for i := 0; i < src.NumField(); i++ {
		f := src.Field(i)
		if reflect.DeepEqual(f.Interface(), reflect.Zero(f.Type()).Interface()) {
			continue
		}
		dst.Field(i).Set(f)
	}
	return nil
}

// patchPayload validates the message and returns its patch.
func patchPayload(tx tally.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return nil, err
	case msg == nil:
		return nil, errors.Wrap(errors.ErrMsg, "nil message")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	p, ok := msg.(Patcher)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T is not a configuration patch", msg)
	}
	change := p.ConfigPatch()
	if change == nil || reflect.ValueOf(change).IsNil() {
		return nil, errors.Wrap(errors.ErrState, "patch payload is required")
	}
	return change, nil
}
