package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	toon "github.com/thedataquarry/toon-go"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Report shape statistics for a TOON document",
	Long: `Decodes a TOON document strictly and reports its structural shape: nesting
depth, how many arrays use each representation, and the byte footprint
relative to the equivalent JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// docStats accumulates structural counts over one decoded document.
type docStats struct {
	maxDepth      int
	objects       int
	inlineArrays  int
	tabularArrays int
	mixedArrays   int
	primitives    int
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}

	value, err := toon.Decode(data)
	if err != nil {
		if de, ok := toon.AsDecodeError(err); ok {
			return fmt.Errorf("line %d (%s): %w", de.Line, de.Kind, err)
		}
		return err
	}

	var stats docStats
	walkValue(value, 0, &stats)

	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return err
	}

	out.Print(fmt.Sprintf("depth:          %d", stats.maxDepth))
	out.Print(fmt.Sprintf("objects:        %d", stats.objects))
	out.Print(fmt.Sprintf("inline arrays:  %d", stats.inlineArrays))
	out.Print(fmt.Sprintf("tabular arrays: %d", stats.tabularArrays))
	out.Print(fmt.Sprintf("mixed arrays:   %d", stats.mixedArrays))
	out.Print(fmt.Sprintf("primitives:     %d", stats.primitives))
	out.Print(fmt.Sprintf("toon bytes:     %d", len(data)))
	out.Print(fmt.Sprintf("json bytes:     %d (TOON saves %.0f%%)",
		len(jsonBytes), savings(len(data), len(jsonBytes))))
	return nil
}

func savings(toonSize, jsonSize int) float64 {
	if jsonSize == 0 {
		return 0
	}
	return (1 - float64(toonSize)/float64(jsonSize)) * 100
}

// walkValue classifies each node the way the encoder would represent it.
func walkValue(value any, depth int, stats *docStats) {
	if depth > stats.maxDepth {
		stats.maxDepth = depth
	}
	switch v := value.(type) {
	case toon.Object:
		stats.objects++
		for _, field := range v.Fields {
			walkValue(field.Value, depth+1, stats)
		}
	case []any:
		switch classifyArray(v) {
		case "inline":
			stats.inlineArrays++
		case "tabular":
			stats.tabularArrays++
		default:
			stats.mixedArrays++
		}
		for _, item := range v {
			walkValue(item, depth+1, stats)
		}
	default:
		stats.primitives++
	}
}

func classifyArray(values []any) string {
	allPrimitive := true
	for _, item := range values {
		switch item.(type) {
		case toon.Object, []any:
			allPrimitive = false
		}
	}
	if allPrimitive {
		return "inline"
	}
	if tabularShaped(values) {
		return "tabular"
	}
	return "mixed"
}

// tabularShaped mirrors the encoder's uniformity test: every element an
// object with the same key set and primitive-only values.
func tabularShaped(values []any) bool {
	if len(values) == 0 {
		return false
	}
	first, ok := values[0].(toon.Object)
	if !ok || first.IsEmpty() {
		return false
	}
	keys := make(map[string]struct{}, first.Len())
	for _, field := range first.Fields {
		if !primitiveValue(field.Value) {
			return false
		}
		keys[field.Key] = struct{}{}
	}
	for _, item := range values[1:] {
		obj, ok := item.(toon.Object)
		if !ok || obj.Len() != len(keys) {
			return false
		}
		for _, field := range obj.Fields {
			if _, ok := keys[field.Key]; !ok || !primitiveValue(field.Value) {
				return false
			}
		}
	}
	return true
}

func primitiveValue(value any) bool {
	switch value.(type) {
	case toon.Object, []any:
		return false
	default:
		return true
	}
}
