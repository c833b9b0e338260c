// Package logging provides leveled, colourised output for spam commands.
//
// Verbosity is controlled by the root command flags:
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnings and errors are always shown. Colour is disabled when NO_COLOR
// is set or the output is not a terminal.
//
//	log := logging.New(verbose, debug)
//	log.Infof("Loaded %d accounts", n)
package logging
