// Package cli implements the command-line interface for showlist-watch.
//
// The root command runs one check: fetch the listing, diff it against the
// state file, email any new shows and save the new state. The preview
// subcommand shows what a check would report without side effects, and init
// writes a sample configuration file. Configuration errors exit with status
// 2 before any network I/O; every other failure exits with status 1 and
// leaves the state file untouched.
package cli
