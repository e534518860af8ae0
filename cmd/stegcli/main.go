// Command stegcli is the command-line surface of spec.md §6: embed, extract,
// score, info, ciphers, and wizard, all thin wrappers around the core
// package's nine operations. Every embed, extract, score and capacity
// operation goes through core; the only other component called directly is
// the sidecar parser, which info uses to dump a key file's fields.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
