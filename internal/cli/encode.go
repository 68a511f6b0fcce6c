package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	toon "github.com/thedataquarry/toon-go"
)

var (
	encodeIndent       int
	encodeDelimiter    string
	encodeLengthMarker bool
	encodeOutput       string
)

var encodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Convert a JSON document to TOON",
	Long: `Reads a JSON document from the given file (or stdin) and writes the TOON
rendering. Object key order is preserved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().IntVar(&encodeIndent, "indent", 0, "spaces per indentation level (default from config)")
	encodeCmd.Flags().StringVar(&encodeDelimiter, "delimiter", "", "array delimiter: comma, tab, or pipe")
	encodeCmd.Flags().BoolVar(&encodeLengthMarker, "length-marker", false, "emit # length markers in array headers")
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	input, err := openInput(args)
	if err != nil {
		return err
	}
	defer input.Close()

	value, err := decodeOrderedJSON(input)
	if err != nil {
		return fmt.Errorf("reading JSON: %w", err)
	}

	opts := []toon.EncoderOption{
		toon.WithIndent(resolveIndent(cmd, encodeIndent)),
		toon.WithDelimiter(resolveDelimiter(cmd, encodeDelimiter)),
	}
	if encodeLengthMarker {
		opts = append(opts, toon.WithLengthMarkers(true))
	}

	doc, err := toon.MarshalString(value, opts...)
	if err != nil {
		return err
	}
	return writeOutput(encodeOutput, doc)
}

// resolveIndent applies flag > env/config precedence.
func resolveIndent(cmd *cobra.Command, flagValue int) int {
	if cmd.Flags().Changed("indent") {
		return flagValue
	}
	return viper.GetInt("indent")
}

func resolveDelimiter(cmd *cobra.Command, flagValue string) toon.Delimiter {
	name := flagValue
	if !cmd.Flags().Changed("delimiter") {
		name = viper.GetString("delimiter")
	}
	switch name {
	case "tab":
		return toon.DelimiterTab
	case "pipe":
		return toon.DelimiterPipe
	default:
		return toon.DelimiterComma
	}
}

func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(args[0])
}

func readInput(args []string) ([]byte, error) {
	input, err := openInput(args)
	if err != nil {
		return nil, err
	}
	defer input.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, input); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeOutput(path, doc string) error {
	if path == "" || path == "-" {
		out.Print(doc)
		return nil
	}
	if err := os.WriteFile(path, []byte(doc+"\n"), 0o644); err != nil {
		return err
	}
	out.Success("wrote " + path)
	return nil
}
