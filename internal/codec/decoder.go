package codec

import (
	"strconv"
	"strings"
	"unicode"

	formatpkg "github.com/thedataquarry/toon-go/internal/format"
	parsepkg "github.com/thedataquarry/toon-go/internal/parse"
)

// Decoder parses TOON documents. Objects decode to the ordered Object type,
// arrays to []any, numbers to int64 or float64, strings per the unescaping
// rules. In strict mode declared lengths, indentation, blank-line placement,
// and key uniqueness are all enforced; non-strict mode skips malformed lines
// and keeps as much of the document as it can.
type Decoder struct {
	cfg decoderOptions
}

// NewDecoder constructs a Decoder with the given options.
func NewDecoder(opts ...DecoderOption) *Decoder {
	cfg := defaultDecoderOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Decoder{cfg: cfg}
}

// Decode parses the provided TOON document.
func (d *Decoder) Decode(data []byte) (any, error) {
	parser, err := newParser(string(data), d.cfg)
	if err != nil {
		return nil, err
	}
	return parser.parseDocument()
}

// DecodeString is a convenience wrapper around Decode.
func (d *Decoder) DecodeString(doc string) (any, error) {
	return d.Decode([]byte(doc))
}

// Decode parses data using a temporary decoder configured with opts.
func Decode(data []byte, opts ...DecoderOption) (any, error) {
	return NewDecoder(opts...).Decode(data)
}

// DecodeString decodes s using a temporary decoder.
func DecodeString(s string, opts ...DecoderOption) (any, error) {
	return NewDecoder(opts...).DecodeString(s)
}

type parser struct {
	lines []parsedLine
	pos   int
	cfg   decoderOptions
}

type parsedLine struct {
	number  int
	indent  int
	depth   int
	content string
	raw     string
	blank   bool
}

func newParser(input string, cfg decoderOptions) (*parser, error) {
	rawLines := splitLines(input)
	lines := make([]parsedLine, 0, len(rawLines))
	for idx, raw := range rawLines {
		line := parsedLine{number: idx + 1, raw: raw}
		if strings.TrimSpace(raw) == "" {
			line.blank = true
			lines = append(lines, line)
			continue
		}
		indent, content, err := measureIndent(raw, cfg)
		if err != nil {
			line.content = strings.TrimSpace(raw)
			if cfg.strict {
				return nil, errorWrap(line, err)
			}
			// Without strict checking, salvage the line with a floor depth.
			indent = len(raw) - len(strings.TrimLeft(raw, " \t"))
			content = strings.TrimLeft(raw, " \t")
		}
		line.indent = indent
		line.content = content
		line.depth = indent
		if cfg.indentSize > 0 {
			line.depth = indent / cfg.indentSize
		}
		lines = append(lines, line)
	}
	return &parser{lines: lines, cfg: cfg}, nil
}

func splitLines(input string) []string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// measureIndent counts leading spaces and validates them against the
// configured step. Tabs never count as indentation.
func measureIndent(line string, cfg decoderOptions) (int, string, error) {
	indent := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			indent++
		case '\t':
			return 0, "", &DecodeError{Kind: KindBadIndent, msg: "tabs are not allowed in indentation"}
		default:
			if cfg.indentSize > 0 && indent%cfg.indentSize != 0 {
				return 0, "", &DecodeError{
					Kind: KindBadIndent,
					msg:  "indentation must be a multiple of " + strconv.Itoa(cfg.indentSize) + " spaces",
				}
			}
			return indent, line[i:], nil
		}
	}
	return 0, "", nil
}

func (p *parser) parseDocument() (any, error) {
	p.skipLeadingBlanks()
	if p.pos >= len(p.lines) {
		return Object{}, nil
	}

	first := p.current()
	header, isHeader, err := p.tryParseHeader(first)
	if err != nil {
		if p.cfg.strict {
			return nil, err
		}
		isHeader = false
	}

	if isHeader && first.depth == 0 && header.key == "" {
		p.pos++
		return p.parseArray(header, first, 0)
	}

	if p.countRemainingNonBlank() == 1 && !isHeader && !isKeyValue(first.content) {
		p.pos++
		return p.parsePrimitive(strings.TrimSpace(first.content), first)
	}

	return p.parseObject(0)
}

// parseObject reads consecutive lines at depth into an ordered object.
func (p *parser) parseObject(depth int) (Object, error) {
	var result Object
	seen := make(map[string]struct{})

	for p.pos < len(p.lines) {
		line := p.current()
		if line.blank {
			p.pos++
			continue
		}
		if line.depth < depth {
			break
		}
		if line.depth > depth {
			if !p.cfg.strict {
				p.pos++
				continue
			}
			return Object{}, errorAt(KindBadIndent, line, "unexpected indentation")
		}

		header, isHeader, err := p.tryParseHeader(line)
		if err != nil {
			if !p.cfg.strict {
				p.pos++
				continue
			}
			return Object{}, err
		}
		if isHeader {
			if header.key == "" {
				if !p.cfg.strict {
					p.pos++
					continue
				}
				return Object{}, errorAt(KindSyntax, line, "arrays within objects must have a key")
			}
			p.pos++
			value, err := p.parseArray(header, line, depth)
			if err != nil {
				return Object{}, err
			}
			if err := addField(&result, seen, header.key, value, line, p.cfg.strict); err != nil {
				return Object{}, err
			}
			continue
		}

		key, rest, err := splitKeyValue(line)
		if err != nil {
			if !p.cfg.strict {
				p.pos++
				continue
			}
			return Object{}, err
		}
		p.pos++
		var value any
		if rest == "" {
			value, err = p.parseObject(depth + 1)
		} else {
			value, err = p.parsePrimitive(rest, line)
		}
		if err != nil {
			return Object{}, err
		}
		if err := addField(&result, seen, key, value, line, p.cfg.strict); err != nil {
			return Object{}, err
		}
	}
	return result, nil
}

func addField(obj *Object, seen map[string]struct{}, key string, value any, line parsedLine, strict bool) error {
	if _, dup := seen[key]; dup {
		if strict {
			return errorAtf(KindDuplicateKey, line, "duplicate key %q", key)
		}
		obj.Set(key, value)
		return nil
	}
	seen[key] = struct{}{}
	obj.Fields = append(obj.Fields, Field{Key: key, Value: value})
	return nil
}

// parseArray materializes one array from its header line. headerLine is kept
// for error reporting; depth is the header's depth.
func (p *parser) parseArray(header parsedHeader, headerLine parsedLine, depth int) (any, error) {
	delimiter := header.delimiter.rune()

	if header.inline != "" || (len(header.fields) == 0 && header.length == 0) {
		return p.parseInlineArray(header, headerLine, delimiter)
	}
	if len(header.fields) > 0 {
		return p.parseTabularArray(header, headerLine, depth, delimiter)
	}
	return p.parseMixedList(header, headerLine, depth)
}

func (p *parser) parseInlineArray(header parsedHeader, headerLine parsedLine, delimiter rune) (any, error) {
	tokens, err := parsepkg.SplitDelimited(header.inline, delimiter)
	if err != nil {
		return nil, errorWrap(headerLine, err)
	}
	values := make([]any, 0, len(tokens))
	for _, token := range tokens {
		value, err := p.parsePrimitive(token, headerLine)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if p.cfg.strict && len(values) != header.length {
		return nil, errorAtf(KindLengthMismatch, headerLine,
			"inline array length mismatch; expected %d, got %d", header.length, len(values))
	}
	return values, nil
}

func (p *parser) parseTabularArray(header parsedHeader, headerLine parsedLine, depth int, delimiter rune) (any, error) {
	rows := make([]any, 0, header.length)
	for p.pos < len(p.lines) {
		line := p.current()
		if line.blank {
			if stop, err := p.handleArrayBlank(line, depth); stop {
				break
			} else if err != nil {
				return nil, err
			}
			continue
		}
		if line.depth <= depth {
			break
		}
		if line.depth != depth+1 {
			if !p.cfg.strict {
				p.pos++
				continue
			}
			return nil, errorAt(KindBadIndent, line, "invalid indentation for tabular row")
		}
		trimmed := strings.TrimSpace(line.content)
		if !looksLikeRow(trimmed, delimiter) {
			break
		}
		p.pos++
		tokens, err := parsepkg.SplitDelimited(trimmed, delimiter)
		if err != nil {
			if !p.cfg.strict {
				continue
			}
			return nil, errorWrap(line, err)
		}
		if p.cfg.strict && len(tokens) != len(header.fields) {
			return nil, errorAtf(KindRowWidthMismatch, line,
				"tabular row width mismatch; expected %d values, got %d", len(header.fields), len(tokens))
		}
		var row Object
		for idx, field := range header.fields {
			if idx >= len(tokens) {
				break
			}
			value, err := p.parsePrimitive(tokens[idx], line)
			if err != nil {
				return nil, err
			}
			row.Fields = append(row.Fields, Field{Key: field, Value: value})
		}
		rows = append(rows, row)
	}
	if p.cfg.strict && len(rows) != header.length {
		return nil, errorAtf(KindLengthMismatch, headerLine,
			"tabular length mismatch; expected %d rows, got %d", header.length, len(rows))
	}
	return rows, nil
}

// looksLikeRow reports whether content reads as a delimiter-joined row rather
// than a key-value pair: an unquoted delimiter occurs before any unquoted
// colon. Rows of single-field tables have neither.
func looksLikeRow(content string, delimiter rune) bool {
	idx, ch := parsepkg.IndexAnyUnquoted(content, string(delimiter)+":")
	return idx == -1 || ch == delimiter
}

func (p *parser) parseMixedList(header parsedHeader, headerLine parsedLine, depth int) (any, error) {
	values := make([]any, 0, header.length)
	for p.pos < len(p.lines) {
		line := p.current()
		if line.blank {
			if stop, err := p.handleArrayBlank(line, depth); stop {
				break
			} else if err != nil {
				return nil, err
			}
			continue
		}
		if line.depth <= depth {
			break
		}
		if line.depth != depth+1 {
			if !p.cfg.strict {
				p.pos++
				continue
			}
			return nil, errorAt(KindBadIndent, line, "invalid indentation for list item")
		}
		if !strings.HasPrefix(line.content, "-") {
			break
		}
		item, err := p.parseListItem(line, depth)
		if err != nil {
			// parseListItem already advanced past the dash line.
			if !p.cfg.strict {
				continue
			}
			return nil, err
		}
		values = append(values, item)
	}
	if p.cfg.strict && len(values) != header.length {
		return nil, errorAtf(KindLengthMismatch, headerLine,
			"list length mismatch; expected %d items, got %d", header.length, len(values))
	}
	return values, nil
}

// parseListItem decodes one dash item. The mirror of the encoder's list-item
// packing: a nested header, a first-field key-value, or a bare primitive.
func (p *parser) parseListItem(line parsedLine, depth int) (any, error) {
	itemContent := strings.TrimSpace(strings.TrimPrefix(line.content, "-"))
	p.pos++

	if itemContent == "{}" {
		return Object{}, nil
	}
	if itemContent == "" {
		obj := Object{}
		if err := p.collectListItemFields(&obj, line, depth); err != nil {
			return nil, err
		}
		return obj, nil
	}

	fakeLine := line
	fakeLine.content = itemContent
	if header, isHeader, err := p.tryParseHeader(fakeLine); err != nil {
		return nil, err
	} else if isHeader {
		arrayValue, err := p.parseArray(header, line, depth+1)
		if err != nil {
			return nil, err
		}
		if header.key == "" {
			return arrayValue, nil
		}
		obj := Object{Fields: []Field{{Key: header.key, Value: arrayValue}}}
		if err := p.collectListItemFields(&obj, line, depth); err != nil {
			return nil, err
		}
		return obj, nil
	}

	if isKeyValue(itemContent) {
		key, rest, err := splitKeyValue(fakeLine)
		if err != nil {
			return nil, err
		}
		var value any
		if rest == "" {
			value, err = p.parseObject(depth + 3)
		} else {
			value, err = p.parsePrimitive(rest, line)
		}
		if err != nil {
			return nil, err
		}
		obj := Object{Fields: []Field{{Key: key, Value: value}}}
		if rest != "" {
			if err := p.collectListItemFields(&obj, line, depth); err != nil {
				return nil, err
			}
		}
		return obj, nil
	}

	return p.parsePrimitive(itemContent, line)
}

// collectListItemFields reads the remaining fields of an object list item,
// which sit one level below the dash line.
func (p *parser) collectListItemFields(obj *Object, itemLine parsedLine, depth int) error {
	seen := make(map[string]struct{}, len(obj.Fields))
	for _, field := range obj.Fields {
		seen[field.Key] = struct{}{}
	}
	for p.pos < len(p.lines) {
		line := p.current()
		if line.blank {
			if stop, err := p.handleArrayBlank(line, depth+1); stop {
				break
			} else if err != nil {
				return err
			}
			continue
		}
		if line.depth <= depth+1 {
			break
		}
		if line.depth != depth+2 {
			if !p.cfg.strict {
				p.pos++
				continue
			}
			return errorAt(KindBadIndent, line, "invalid indentation for list item field")
		}

		header, isHeader, err := p.tryParseHeader(line)
		if err != nil {
			if !p.cfg.strict {
				p.pos++
				continue
			}
			return err
		}
		if isHeader {
			if header.key == "" {
				return errorAt(KindSyntax, line, "arrays within objects must have a key")
			}
			p.pos++
			value, err := p.parseArray(header, line, depth+2)
			if err != nil {
				return err
			}
			if err := addField(obj, seen, header.key, value, line, p.cfg.strict); err != nil {
				return err
			}
			continue
		}

		key, rest, err := splitKeyValue(line)
		if err != nil {
			if !p.cfg.strict {
				p.pos++
				continue
			}
			return err
		}
		p.pos++
		var value any
		if rest == "" {
			value, err = p.parseObject(depth + 3)
		} else {
			value, err = p.parsePrimitive(rest, line)
		}
		if err != nil {
			return err
		}
		if err := addField(obj, seen, key, value, line, p.cfg.strict); err != nil {
			return err
		}
	}
	return nil
}

// handleArrayBlank decides what a blank line inside an array scope means. A
// trailing blank (nothing deeper follows) ends the array; an interior blank
// is an error in strict mode and skipped otherwise.
func (p *parser) handleArrayBlank(line parsedLine, depth int) (stop bool, err error) {
	if next, ok := p.nextNonBlankDepth(); !ok || next <= depth {
		return true, nil
	}
	if p.cfg.strict {
		return false, errorAt(KindUnexpectedBlank, line, "blank line inside array")
	}
	p.pos++
	return false, nil
}

func (p *parser) current() parsedLine {
	return p.lines[p.pos]
}

func (p *parser) skipLeadingBlanks() {
	for p.pos < len(p.lines) && p.lines[p.pos].blank {
		p.pos++
	}
}

func (p *parser) countRemainingNonBlank() int {
	count := 0
	for _, line := range p.lines[p.pos:] {
		if !line.blank {
			count++
		}
	}
	return count
}

func (p *parser) nextNonBlankDepth() (int, bool) {
	for i := p.pos + 1; i < len(p.lines); i++ {
		if !p.lines[i].blank {
			return p.lines[i].depth, true
		}
	}
	return 0, false
}

type parsedHeader struct {
	key       string
	length    int
	delimiter Delimiter
	fields    []string
	inline    string
}

// tryParseHeader recognizes an array header line: optional key, a bracketed
// length with optional # marker and delimiter symbol, an optional {…} field
// clause, and a terminal colon. Non-headers return ok=false without error so
// the caller can fall through to key-value parsing.
func (p *parser) tryParseHeader(line parsedLine) (parsedHeader, bool, error) {
	content := line.content
	colon := parsepkg.IndexUnquoted(content, ':')
	if colon == -1 {
		return parsedHeader{}, false, nil
	}
	left := strings.TrimSpace(content[:colon])
	right := strings.TrimSpace(content[colon+1:])
	if left == "" {
		return parsedHeader{}, false, nil
	}
	bracketStart := parsepkg.IndexUnquoted(left, '[')
	if bracketStart == -1 {
		return parsedHeader{}, false, nil
	}
	rest := left[bracketStart+1:]
	bracketEnd := parsepkg.IndexUnquoted(rest, ']')
	if bracketEnd == -1 {
		return parsedHeader{}, false, errorAt(KindSyntax, line, "missing closing bracket in array header")
	}

	header := parsedHeader{delimiter: DelimiterComma, inline: right}

	keyPart := strings.TrimSpace(left[:bracketStart])
	if keyPart != "" {
		key, err := decodeKeyToken(keyPart)
		if err != nil {
			return parsedHeader{}, false, errorWrap(line, err)
		}
		header.key = key
	}

	length, delim, err := parseBracketSegment(rest[:bracketEnd])
	if err != nil {
		return parsedHeader{}, false, errorWrap(line, err)
	}
	header.length = length
	header.delimiter = delim

	fieldSegment := strings.TrimSpace(rest[bracketEnd+1:])
	if fieldSegment != "" {
		if !strings.HasPrefix(fieldSegment, "{") || !strings.HasSuffix(fieldSegment, "}") {
			return parsedHeader{}, false, errorAt(KindUnterminatedFields, line, "malformed field clause in array header")
		}
		inner := fieldSegment[1 : len(fieldSegment)-1]
		if inner != "" {
			rawFields, err := parsepkg.SplitDelimited(inner, delim.rune())
			if err != nil {
				return parsedHeader{}, false, errorAt(KindUnterminatedFields, line, err.Error())
			}
			fields := make([]string, 0, len(rawFields))
			for _, token := range rawFields {
				field, err := decodeKeyToken(token)
				if err != nil {
					return parsedHeader{}, false, errorWrap(line, err)
				}
				fields = append(fields, field)
			}
			header.fields = fields
		}
	}
	return header, true, nil
}

// parseBracketSegment reads "N", "#N", "N|" and friends. The # marker is
// informational and stripped.
func parseBracketSegment(segment string) (int, Delimiter, error) {
	segment = strings.TrimPrefix(segment, "#")
	if segment == "" {
		return 0, DelimiterComma, &DecodeError{Kind: KindSyntax, msg: "missing array length"}
	}
	var digits strings.Builder
	delim := DelimiterComma
	for _, r := range segment {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case r == ',':
			delim = DelimiterComma
		case r == '\t':
			delim = DelimiterTab
		case r == '|':
			delim = DelimiterPipe
		default:
			return 0, DelimiterComma, &DecodeError{Kind: KindSyntax, msg: "invalid delimiter symbol " + strconv.QuoteRune(r)}
		}
	}
	if digits.Len() == 0 {
		return 0, DelimiterComma, &DecodeError{Kind: KindSyntax, msg: "missing digits in array length"}
	}
	length, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, DelimiterComma, &DecodeError{Kind: KindSyntax, msg: err.Error()}
	}
	return length, delim, nil
}

func splitKeyValue(line parsedLine) (string, string, error) {
	colon := parsepkg.IndexUnquoted(line.content, ':')
	if colon == -1 {
		return "", "", errorAt(KindMissingColon, line, "missing colon after key")
	}
	keyToken := strings.TrimSpace(line.content[:colon])
	valueToken := strings.TrimSpace(line.content[colon+1:])
	key, err := decodeKeyToken(keyToken)
	if err != nil {
		return "", "", errorWrap(line, err)
	}
	return key, valueToken, nil
}

func decodeKeyToken(token string) (string, error) {
	if token == "" {
		return "", &DecodeError{Kind: KindSyntax, msg: "empty key"}
	}
	if token[0] == '"' {
		return parsepkg.Unquote(token)
	}
	if !formatpkg.IsValidUnquotedKey(token) {
		return "", &DecodeError{Kind: KindSyntax, msg: "invalid unquoted key " + strconv.Quote(token)}
	}
	return token, nil
}

// parsePrimitive decodes a single scalar token. Keyword literals match
// case-insensitively; numeric text without a fraction or exponent becomes
// int64; everything unrecognized stays a string.
func (p *parser) parsePrimitive(token string, line parsedLine) (any, error) {
	if token == "" {
		return "", nil
	}
	if token[0] == '"' {
		value, err := parsepkg.Unquote(token)
		if err != nil {
			return nil, errorWrap(line, err)
		}
		return value, nil
	}
	switch {
	case strings.EqualFold(token, "null"):
		return nil, nil
	case strings.EqualFold(token, "true"):
		return true, nil
	case strings.EqualFold(token, "false"):
		return false, nil
	}
	if formatpkg.HasLeadingZeroDigits(token) {
		return token, nil
	}
	if formatpkg.LooksNumeric(token) {
		if !strings.ContainsAny(token, ".eE") {
			if i, err := strconv.ParseInt(token, 10, 64); err == nil {
				return i, nil
			}
		}
		if f, err := strconv.ParseFloat(token, 64); err == nil {
			return f, nil
		}
	}
	return token, nil
}

func isKeyValue(content string) bool {
	return parsepkg.IndexUnquoted(content, ':') > 0
}
