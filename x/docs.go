/*
Package x contains the standard extensions.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together by the app package. This package holds
the authentication helpers every extension relies on: handlers never
verify signatures themselves, they ask an Authenticator which conditions
the host established for the current call.
*/
package x
