// Package truststore builds certificate trust verifiers from named certificate
// stores (a CA bundle, the system roots, the macOS login keychain or the
// Windows current-user ROOT store) and combines them into a single Composite
// verifier that trusts a server chain if any one of its members does.
package truststore
