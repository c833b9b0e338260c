// Package git warns about plaintext exports that git could pick up.
//
// A dump written inside a work tree is reported when it is either already
// tracked or not covered by any .gitignore. Directories outside a
// repository, and systems without git installed, produce no findings.
package git
