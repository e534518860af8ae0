package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/astego/cryptostego/models"
	"github.com/spf13/cobra"
)

// newWizardCmd is an interactive front end over embed/extract for users who
// don't want to assemble flags by hand. It holds no logic of its own beyond
// collecting answers and building the same flag structs the embed/extract
// commands use, so embed and wizard can never disagree about what a field
// means.
func newWizardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "interactive prompt for embedding or extracting a payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)
			action := ask(reader, "embed or extract")
			switch strings.ToLower(strings.TrimSpace(action)) {
			case "embed":
				return wizardEmbed(reader)
			case "extract":
				return wizardExtract(reader)
			default:
				return fmt.Errorf("unrecognized action %q, expected embed or extract", action)
			}
		},
	}
}

func wizardEmbed(reader *bufio.Reader) error {
	f := &embedFlags{
		cover:  ask(reader, "cover file path"),
		secret: ask(reader, "secret file path"),
		out:    ask(reader, "output stego file path"),
		key:    ask(reader, "sidecar key output path"),
		cipher: string(models.CipherChaCha20Poly1305),
		mode:   string(models.ModeAdaptive),
	}
	if c := ask(reader, "cipher [ChaCha20-Poly1305]"); c != "" {
		f.cipher = c
	}
	if m := ask(reader, "mode [adaptive]"); m != "" {
		f.mode = m
	}
	return runEmbed(f)
}

func wizardExtract(reader *bufio.Reader) error {
	f := &extractFlags{
		stego: ask(reader, "stego file path"),
		key:   ask(reader, "sidecar key path"),
		out:   ask(reader, "output payload path"),
	}
	return runExtract(f)
}

func ask(reader *bufio.Reader, prompt string) string {
	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
