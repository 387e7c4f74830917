// Package secretstream implements single-message open and seal for the
// XChaCha20-Poly1305 secret stream construction used by libsodium
// (crypto_secretstream_xchacha20poly1305).
//
// Only the first message of a stream is handled. Containers that carry a
// whole payload in one chunk, such as Ente exports, need nothing more.
package secretstream
