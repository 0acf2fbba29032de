package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tao/internal/diag"
	"tao/internal/diagfmt"
	"tao/internal/hirfile"
	"tao/internal/source"
)

func newPackCmd() *cobra.Command {
	var (
		output string
		to     string
	)
	cmd := &cobra.Command{
		Use:   "pack IN",
		Short: "Re-encode a HIR document into another codec",
		Long: `pack loads a HIR document, checks that it builds, and writes it again
using the codec named by the output extension or --to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, args[0], output, to)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (\"-\" for stdout)")
	cmd.Flags().StringVar(&to, "to", "", "output codec (toml|yaml|msgpack); defaults to the output extension")
	return cmd
}

func packCodec(output, to string) (hirfile.Codec, error) {
	switch to {
	case "toml":
		return hirfile.CodecTOML, nil
	case "yaml":
		return hirfile.CodecYAML, nil
	case "msgpack":
		return hirfile.CodecMsgpack, nil
	case "":
	default:
		return 0, fmt.Errorf("invalid --to %q (expected toml|yaml|msgpack)", to)
	}
	if output == "-" {
		return 0, fmt.Errorf("--to is required when writing to stdout")
	}
	return hirfile.CodecFor(output)
}

func runPack(cmd *cobra.Command, input, output, to string) error {
	codec, err := packCodec(output, to)
	if err != nil {
		return err
	}
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	fs := source.NewFileSet()
	bag := diag.NewBag(maxDiagnostics)
	mod, err := hirfile.Load(fs, input, &diag.BagReporter{Bag: bag})
	if bag.Len() > 0 {
		bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: !color.NoColor, ShowNotes: true})
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := hirfile.Encode(&buf, mod.Doc, codec); err != nil {
		return fmt.Errorf("encode %s: %w", codec, err)
	}
	if output == "-" {
		_, err := io.Copy(cmd.OutOrStdout(), &buf)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	return os.WriteFile(output, buf.Bytes(), 0o600)
}
