// Package storage provides plain-text persistence for the set of known shows.
//
// The state file holds one canonical show line per line, UTF-8 and newline
// terminated. It is replaced wholesale on every successful run by writing a
// temporary file in the same directory and renaming it over the target, so a
// crash mid-write never leaves a truncated file that would read as "no shows
// known". A lock file next to the state file keeps two runs from overlapping.
// The directory is created on the first Lock or Save, so loading never
// touches the disk.
package storage
