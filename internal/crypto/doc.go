// Package crypto provides the cryptographic pipeline for spam vaults.
//
// Two on-disk formats are supported:
//
// Legacy (default):
//   - 32-byte key = SHA-256(password), no salt
//   - AES-256-CBC with an all-zero IV and PKCS#7 padding
//   - raw ciphertext, no header
//
// Salted:
//   - 32-byte random salt, key derived via PBKDF2-HMAC-SHA256
//   - 16-byte random IV per save
//   - layout: salt || iv || AES-256-CBC ciphertext (PKCS#7)
//
// Neither format carries an authentication tag. A wrong password is
// detected only through invalid padding, reported as ErrDecryption.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Cipher.Destroy() when done with a session
package crypto
