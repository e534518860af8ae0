package main

import (
	"fmt"
	"os"

	"github.com/astego/cryptostego/models"
	"github.com/rs/zerolog/log"
)

// checkOutputAllowed enforces OutputExists (spec.md §7): a target path that
// already exists is refused unless force is set.
func checkOutputAllowed(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return models.NewError(models.KindOutputExists, path, nil)
	}
	return nil
}

// warnInsecurePassphraseFlag is called whenever --passphrase is read off the
// command line rather than a prompt, per spec.md §6's requirement that the
// flag be documented as shell-history-visible.
func warnInsecurePassphraseFlag() {
	log.Warn().Msg("--passphrase is visible in shell history and process listings; prefer the interactive prompt")
}

// exitKind maps a KindedError's ErrorKind to the stable code (the kind's
// own name, e.g. "AuthFail", or "Internal" for an error without a kind)
// printed alongside an error message, so scripts invoking stegcli can grep
// for a kind without parsing prose.
func exitKind(err error) string {
	if k := models.KindOf(err); k != "" {
		return string(k)
	}
	return "Internal"
}

func reportError(err error) error {
	log.Error().Str("kind", exitKind(err)).Msg(err.Error())
	return fmt.Errorf("%s: %w", exitKind(err), err)
}
