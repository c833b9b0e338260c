// Package fileproxy gives the vault core access to a single file.
//
// Every File opens an os.Root on the directory that holds the target and
// performs all I/O on the base name through it, so symlinks or names that
// try to leave that directory are rejected.
package fileproxy
