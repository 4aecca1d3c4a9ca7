/*
Package receipt implements a proportional distribution ledger.

Value deposited into the receipt treasury is split between registered members
according to their weights. Deposits never iterate over members. Instead the
ledger keeps an accumulator of value distributed per unit of weight since
genesis, scaled by Precision. Every member keeps a checkpoint of that
accumulator taken at its last settlement, so the entitlement of a member is
always

	weight * (accumulator - checkpoint) / Precision

Settlement happens before every weight change, so a reweight or a
deregistration never loses value that was already earned. Value deposited
while no weight is registered is held back and folded into the next deposit.

Members are managed by the configuration owner. When the configuration is
phased, the owner can close the registration window. Deposits and claims are
allowed in both phases.

Every command either fully commits or leaves the store untouched, including
the bank transfer that pays out or collects the value.
*/
package receipt
