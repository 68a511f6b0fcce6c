package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	toon "github.com/thedataquarry/toon-go"
)

var (
	decodeIndent   int
	decodeNoStrict bool
	decodeCompact  bool
	decodeOutput   string
)

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Convert a TOON document to JSON",
	Long: `Reads a TOON document from the given file (or stdin) and writes the JSON
rendering. Strict mode enforces declared array lengths, indentation, and key
uniqueness; disable it to salvage malformed documents.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().IntVar(&decodeIndent, "indent", 0, "expected spaces per indentation level (default from config)")
	decodeCmd.Flags().BoolVar(&decodeNoStrict, "no-strict", false, "skip malformed lines instead of failing")
	decodeCmd.Flags().BoolVar(&decodeCompact, "compact", false, "emit compact JSON instead of indented")
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}

	strict := viper.GetBool("strict") && !decodeNoStrict
	value, err := toon.Decode(data,
		toon.WithDecoderIndent(resolveIndent(cmd, decodeIndent)),
		toon.WithStrictMode(strict),
	)
	if err != nil {
		if de, ok := toon.AsDecodeError(err); ok {
			return fmt.Errorf("line %d (%s): %w", de.Line, de.Kind, err)
		}
		return err
	}

	var rendered []byte
	if decodeCompact {
		rendered, err = json.Marshal(value)
	} else {
		rendered, err = json.MarshalIndent(value, "", "  ")
	}
	if err != nil {
		return err
	}
	return writeOutput(decodeOutput, string(rendered))
}
