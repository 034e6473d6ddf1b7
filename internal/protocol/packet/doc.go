// Package packet owns OpenPGP packet framing (RFC 4880 section 4).
//
// Ownership boundary:
// - old/new format header decode and encode
// - buffer walk with offset-tagged errors
// - PKESK and SEIP body layouts and extraction into a Sink
//
// The package never decrypts or verifies anything and does not support
// partial body lengths.
package packet
