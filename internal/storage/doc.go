// Package storage provides the BBolt-backed vault registry for spam.
//
// Encrypted vault files carry no header, so anything spam needs to know
// about a vault without unlocking it lives here, keyed by the vault's
// absolute path:
//   - config: registry schema version and creation time
//   - vaults: one JSON VaultRecord per known vault (id, format, KDF
//     iterations, timestamps)
//
// The id is the account name used for the OS keyring entry.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
