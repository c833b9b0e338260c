// Package core holds the unlocked credential store and the vault session
// around it.
//
// Core operations include:
//   - Store: add, modify, remove, rename, search and export accounts
//   - MergeFrom: fold another store in, suffixing conflicting names
//   - Import: add a plaintext name=secret payload, suffixing every collision
//   - Open/Create/Save: decrypt a vault file into a Store and write it back
//
// Conflicting names get "_" plus a Suffixer draw appended. The default
// Suffixer takes eight hex digits of a random UUID; tests inject their own.
package core
