// Package cli implements the gitsetup command-line interface.
//
// Running gitsetup with no arguments starts the setup wizard (see package
// wizard). The subcommands are additive and never change that behavior:
//
//	gitsetup            - Run the setup wizard
//	gitsetup doctor     - Check the setup without changing anything
//	gitsetup config     - Print effective settings as YAML
//	gitsetup version    - Print version information
//
// # Exit Codes
//
// Errors returned by commands carry a code from package errors. Execute maps
// them to exit codes through ExitCode: DECLINED exits 0, CANCELLED exits 130,
// everything else exits 1. Commands that have already printed a report,
// like doctor with failing checks, return an errors.ExitError so nothing is
// printed twice.
//
// SIGINT and SIGTERM cancel the command's context. Interactive prompts and
// running tools observe the cancellation and the run unwinds as CANCELLED.
package cli
