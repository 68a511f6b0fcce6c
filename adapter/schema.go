package adapter

import (
	"fmt"
	"strings"
)

// commentSymbol prefixes description lines in object schemas.
const commentSymbol = "#"

// renderType renders a type descriptor into the schema notation shown to the
// model. fieldName is threaded through for array types, whose rendering
// concatenates the name directly with the [COUNT] bracket.
func renderType(t Type, indent int, fieldName string) string {
	rendered := renderBareType(t, indent, fieldName)
	if t.Nullable && !strings.HasSuffix(rendered, " or null") {
		rendered += " or null"
	}
	return rendered
}

func renderBareType(t Type, indent int, fieldName string) string {
	switch t.Kind {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindAny:
		return "any"
	case KindEnum:
		quoted := make([]string, len(t.Enum))
		for i, v := range t.Enum {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		return strings.Join(quoted, " or ")
	case KindObject:
		// Built unindented; callers prefix nested lines themselves.
		return buildObjectSchema(t.Fields, 0)
	case KindList:
		return renderListType(t, indent, fieldName)
	case KindHistory:
		return "history"
	default:
		return "any"
	}
}

// renderListType renders an array descriptor. The "or null" of a nullable
// array wraps the whole rendering via renderType; the inner element rendering
// never repeats it.
func renderListType(t Type, indent int, fieldName string) string {
	elem := *t.Elem
	if elem.Kind == KindObject {
		fields := strings.Join(fieldNames(elem.Fields), ",")
		header := fmt.Sprintf("%s[COUNT]{%s}:", fieldName, fields)
		return header + "\n  value1,value2,...\n  (one row per item, COUNT = number of items)"
	}
	inner := renderBareType(elem, indent, "")
	return fmt.Sprintf("%s[COUNT]: %s,... (COUNT = num items)", fieldName, inner)
}

// buildObjectSchema renders an object's fields as indented "name: type"
// lines, each preceded by a comment line when the field is documented.
func buildObjectSchema(fields []Field, indent int) string {
	var lines []string
	pad := strings.Repeat("  ", indent)

	for _, field := range fields {
		if field.Desc != "" {
			lines = append(lines, pad+commentSymbol+" "+field.Desc)
		}
		if isListType(field.Type) {
			rendered := renderType(field.Type, indent+1, field.Name)
			if strings.Contains(rendered, "\n") {
				parts := strings.Split(rendered, "\n")
				lines = append(lines, pad+parts[0])
				for _, part := range parts[1:] {
					lines = append(lines, pad+"  "+strings.TrimPrefix(part, "  "))
				}
			} else {
				lines = append(lines, pad+rendered)
			}
			continue
		}
		rendered := renderType(field.Type, indent+1, "")
		if strings.Contains(rendered, "\n") {
			lines = append(lines, pad+field.Name+":")
			for _, part := range strings.Split(rendered, "\n") {
				lines = append(lines, pad+"  "+part)
			}
		} else {
			lines = append(lines, pad+field.Name+": "+rendered)
		}
	}
	return strings.Join(lines, "\n")
}

// outputSchema renders the structure block entry for one declared output.
func outputSchema(field Field) string {
	t := field.Type

	if t.Kind == KindList && t.Elem.Kind == KindObject {
		fields := t.Elem.Fields
		names := strings.Join(fieldNames(fields), ",")
		row1 := exampleRow(fields, 1)
		row2 := exampleRow(fields, 2)
		return fmt.Sprintf("%s[2]{%s}:\n  %s\n  %s\n(Replace 2 with actual count, add one row per item)",
			field.Name, names, row1, row2)
	}

	if t.Kind == KindObject {
		return field.Name + ":\n" + buildObjectSchema(t.Fields, 1)
	}

	if t.Kind == KindList {
		return field.Name + "[COUNT]: value1,value2,value3"
	}

	return field.Name + ": " + renderType(t, 0, "")
}

// exampleRow builds one placeholder row for a tabular example, varying values
// by position so the two rows read as distinct items.
func exampleRow(fields []Field, n int) string {
	tokens := make([]string, len(fields))
	for i, f := range fields {
		switch f.Type.Kind {
		case KindInt:
			tokens[i] = fmt.Sprintf("%d", n)
		case KindFloat:
			tokens[i] = fmt.Sprintf("%d.5", n)
		case KindBool:
			if n == 1 {
				tokens[i] = "true"
			} else {
				tokens[i] = "false"
			}
		case KindEnum:
			idx := (n - 1) % len(f.Type.Enum)
			tokens[i] = f.Type.Enum[idx]
		default:
			tokens[i] = fmt.Sprintf("%s%d", f.Name, n)
		}
	}
	return strings.Join(tokens, ",")
}
