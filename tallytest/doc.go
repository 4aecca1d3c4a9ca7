/*
Package tallytest provides mocks and helpers for testing extensions
without a running host.
*/
package tallytest
