package codec

// Values moving through the codec form a small closed set. After
// normalization, and equally after decoding, a value is one of:
//
//   - nil
//   - bool
//   - int64
//   - float64 (finite)
//   - string
//   - []any
//   - Object (insertion-ordered string-keyed fields)
//
// The encoder consumes exactly this set; anything else is a bug in
// normalization. Non-finite floats never appear: they degrade to nil before
// the encoder runs.

// isPrimitive reports whether value is a leaf of the data model.
func isPrimitive(value any) bool {
	switch value.(type) {
	case nil, bool, int64, float64, string:
		return true
	default:
		return false
	}
}

// isPrimitiveArray reports whether every element of values is a leaf.
func isPrimitiveArray(values []any) bool {
	for _, v := range values {
		if !isPrimitive(v) {
			return false
		}
	}
	return true
}
