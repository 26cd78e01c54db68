// Command ostrust inspects and exercises TLS trust backed by the operating
// system's native certificate store. It shows which trust stores the current
// platform consults (the macOS login keychain or the Windows current-user
// ROOT store, in addition to a default store), lists the certificate
// authorities they accept, and fetches HTTPS URLs through a client that
// trusts any of them.
package main
