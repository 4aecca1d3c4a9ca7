/*
Package cash implements the bank the receipt engine moves value through.

Every address owns a wallet holding one balance per denomination. A
denomination is an opaque string key (see receipt.Denom.Key for how native
tickers and token contracts are encoded), so the bank never needs to know
what kind of value it holds. Balances are kept as num.Uint and limited to
128 bits.
*/
package cash
