package toml

import (
	"strings"
)

// defState is the definition status of a dotted path in the ledger.
type defState int

const (
	// stateValue marks a path bound to a scalar or inline container.
	stateValue defState = iota + 1
	// stateExplicitTable marks a table defined by a [header] line.
	stateExplicitTable
	// stateImplicitTableByHeader marks a table named only as a prefix
	// of a later header.
	stateImplicitTableByHeader
	// stateImplicitTableByKey marks a table created as a prefix of a
	// dotted key.
	stateImplicitTableByKey
	// stateArrayOfTables marks a path defined by [[header]] lines.
	stateArrayOfTables
)

// defNode is a node of the definition ledger, a tree paralleling the
// document that records how each path came into existence. It exists
// only for the duration of a Parse call. For an array-of-tables node
// the children describe the most recent element; they are reset on
// every append.
type defNode struct {
	state    defState
	closed   bool
	children map[string]*defNode
}

func newDefNode(state defState) *defNode {
	return &defNode{state: state, children: make(map[string]*defNode)}
}

// parser assembles the document tree from the scanner's tokens while
// enforcing the key-uniqueness and table-redefinition rules through
// the ledger.
type parser struct {
	scanner
	ledger *defNode
	root   *Value
}

// Parse reads a complete TOML v1.0.0 document and returns its
// document tree. Every grammar or semantic violation is reported as a
// *ParseError carrying a byte offset into data.
func Parse(data []byte) (*Value, error) {
	p := &parser{
		scanner: scanner{data: string(data)},
		ledger:  newDefNode(stateImplicitTableByHeader),
		root:    Table(),
	}
	if err := p.parseDocument(); err != nil {
		return nil, err
	}
	return p.root, nil
}

func (p *parser) parseDocument() error {
	if err := p.skipTrivia(); err != nil {
		return err
	}
	// Top-level key/value pairs come before the first table header.
	for !p.eof() && p.peek() != '[' {
		if err := p.parseBodyLine(p.ledger, p.root); err != nil {
			return err
		}
		if err := p.skipTrivia(); err != nil {
			return err
		}
	}
	for !p.eof() {
		if p.peek() != '[' {
			return p.errf(p.pos, "expected table header")
		}
		offset := p.pos
		keys, isArray, err := p.parseTableHeader()
		if err != nil {
			return err
		}
		if err := p.skipWhitespaceAndComment(); err != nil {
			return err
		}
		if !p.eof() && !p.skipNewline() {
			return p.errf(p.pos, "a line break is required after a table header")
		}
		led, table, err := p.defineHeader(keys, isArray, offset)
		if err != nil {
			return err
		}
		if err := p.skipTrivia(); err != nil {
			return err
		}
		for !p.eof() && p.peek() != '[' {
			if err := p.parseBodyLine(led, table); err != nil {
				return err
			}
			if err := p.skipTrivia(); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseBodyLine parses one `dotted-key = value` line of a table body
// and binds it under the given ledger node and table.
func (p *parser) parseBodyLine(led *defNode, table *Value) error {
	offset := p.pos
	keys, err := p.parseDottedKey(false)
	if err != nil {
		return err
	}
	p.skipWhitespace()
	if p.eof() || p.peek() != '=' {
		return p.errf(p.pos, "expected '=' after a key")
	}
	p.pos++
	v, err := p.parseValue()
	if err != nil {
		return err
	}
	if err := p.skipWhitespaceAndComment(); err != nil {
		return err
	}
	if !p.eof() && !p.skipNewline() {
		return p.errf(p.pos, "a line break is required after the value")
	}
	return p.assign(led, table, keys, v, offset)
}

// parseDottedKey reads one or more key segments joined by dots.
// Whitespace around the dots is permitted.
func (p *parser) parseDottedKey(inTable bool) ([]string, error) {
	var keys []string
	for {
		p.skipWhitespace()
		if p.eof() {
			return nil, p.errf(p.pos, "unexpected end of input in key")
		}
		var key string
		var err error
		if c := p.peek(); c == '"' || c == '\'' {
			key, err = p.readQuotedKey()
		} else {
			key, err = p.readBareKey(inTable)
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		p.skipWhitespace()
		if !p.eof() && p.peek() == '.' {
			p.pos++
			continue
		}
		return keys, nil
	}
}

// parseTableHeader reads `[ a.b.c ]` or `[[ a.b.c ]]` with p.pos on
// the first bracket.
func (p *parser) parseTableHeader() ([]string, bool, error) {
	p.pos++
	isArray := false
	if !p.eof() && p.peek() == '[' {
		isArray = true
		p.pos++
	}
	keys, err := p.parseDottedKey(true)
	if err != nil {
		return nil, false, err
	}
	if p.eof() || p.peek() != ']' {
		return nil, false, p.errf(p.pos, "expected ']' to close a table header")
	}
	p.pos++
	if isArray {
		if p.eof() || p.peek() != ']' {
			return nil, false, p.errf(p.pos, "expected ']]' to close an array-of-tables header")
		}
		p.pos++
	}
	return keys, isArray, nil
}

// parseValue dispatches on the first character after whitespace.
func (p *parser) parseValue() (*Value, error) {
	p.skipWhitespace()
	if p.eof() {
		return nil, p.errf(p.pos, "expected a value")
	}
	switch c := p.peek(); {
	case c == '"' || c == '\'':
		s, err := p.readString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case c == '+' || c == '-' || isDigit(c) || c == 'i' || c == 'n':
		return p.readNumberOrDate()
	case c == 't' || c == 'f':
		return p.readBool()
	case c == '[':
		return p.parseArray()
	case c == '{':
		return p.parseInlineTable()
	default:
		return nil, p.errf(p.pos, "invalid value")
	}
}

// parseArray reads `[ v1, v2, ... ]`. Newlines and comments are
// permitted anywhere inside; a trailing comma is permitted.
func (p *parser) parseArray() (*Value, error) {
	p.pos++
	arr := Array()
	for {
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errf(p.pos, "unclosed array: missing ']'")
		}
		if p.peek() == ']' {
			p.pos++
			return arr, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.array = append(arr.array, v)
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errf(p.pos, "unclosed array: missing ']'")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return arr, nil
		default:
			return nil, p.errf(p.pos, "expected ',' or ']' in array")
		}
	}
}

// parseInlineTable reads `{ k = v, k = v }`. Newlines are not
// permitted inside, a trailing comma is not permitted, and the dotted
// keys are checked against a ledger local to the braces.
func (p *parser) parseInlineTable() (*Value, error) {
	p.pos++
	table := Table()
	led := newDefNode(stateImplicitTableByHeader)
	p.skipWhitespace()
	if !p.eof() && p.peek() == '}' {
		p.pos++
		return table, nil
	}
	for {
		if p.eof() {
			return nil, p.errf(p.pos, "unclosed inline table: missing '}'")
		}
		if c := p.peek(); c == '\n' || c == '\r' {
			return nil, p.errf(p.pos, "a line break is not allowed inside an inline table")
		}
		offset := p.pos
		keys, err := p.parseDottedKey(false)
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if p.eof() || p.peek() != '=' {
			return nil, p.errf(p.pos, "expected '=' after a key")
		}
		p.pos++
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if err := p.assign(led, table, keys, v, offset); err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if p.eof() {
			return nil, p.errf(p.pos, "unclosed inline table: missing '}'")
		}
		switch p.peek() {
		case ',':
			p.pos++
			p.skipWhitespace()
			if !p.eof() && p.peek() == '}' {
				return nil, p.errf(p.pos, "a trailing comma is not allowed in an inline table")
			}
		case '}':
			p.pos++
			return table, nil
		case '\n', '\r':
			return nil, p.errf(p.pos, "a line break is not allowed inside an inline table")
		default:
			return nil, p.errf(p.pos, "expected ',' or '}' in inline table")
		}
	}
}

// assign binds a dotted key to a value under the given ledger node
// and table, creating implicit tables for the intermediate segments.
func (p *parser) assign(led *defNode, table *Value, keys []string, v *Value, offset int) error {
	node := led
	for i, k := range keys[:len(keys)-1] {
		child := node.children[k]
		if child == nil {
			child = newDefNode(stateImplicitTableByKey)
			node.children[k] = child
			sub := Table()
			table.table[k] = sub
			node, table = child, sub
			continue
		}
		switch child.state {
		case stateValue:
			if child.closed {
				return p.errf(offset, "inline table %q cannot be extended", joinKeys(keys[:i+1]))
			}
			return p.errf(offset, "key %q is already defined as a value", joinKeys(keys[:i+1]))
		case stateArrayOfTables:
			arr := table.table[k]
			node, table = child, arr.array[len(arr.array)-1]
		default:
			if child.state == stateImplicitTableByHeader {
				child.state = stateImplicitTableByKey
			}
			node, table = child, table.table[k]
		}
	}
	leaf := keys[len(keys)-1]
	if node.children[leaf] != nil || table.table[leaf] != nil {
		return p.errf(offset, "key %q is already defined", joinKeys(keys))
	}
	ln := newDefNode(stateValue)
	if v.kind == KindTable || v.kind == KindArray {
		ln.closed = true
	}
	node.children[leaf] = ln
	table.table[leaf] = v
	return nil
}

// defineHeader resolves a `[a.b.c]` or `[[a.b.c]]` header against the
// ledger, creating implicit tables along the prefix and descending
// into the last element of any array of tables on the way.
func (p *parser) defineHeader(keys []string, isArray bool, offset int) (*defNode, *Value, error) {
	node, table := p.ledger, p.root
	for i, k := range keys[:len(keys)-1] {
		child := node.children[k]
		if child == nil {
			child = newDefNode(stateImplicitTableByHeader)
			node.children[k] = child
			sub := Table()
			table.table[k] = sub
			node, table = child, sub
			continue
		}
		switch child.state {
		case stateValue:
			return nil, nil, p.errf(offset, "key %q is already defined as a value", joinKeys(keys[:i+1]))
		case stateArrayOfTables:
			arr := table.table[k]
			node, table = child, arr.array[len(arr.array)-1]
		default:
			node, table = child, table.table[k]
		}
	}

	leaf := keys[len(keys)-1]
	child := node.children[leaf]
	if isArray {
		if child == nil {
			child = newDefNode(stateArrayOfTables)
			node.children[leaf] = child
			arr := &Value{kind: KindArray}
			elem := Table()
			arr.array = append(arr.array, elem)
			table.table[leaf] = arr
			return child, elem, nil
		}
		if child.state != stateArrayOfTables {
			return nil, nil, p.errf(offset, "cannot redefine %q as an array of tables", joinKeys(keys))
		}
		arr := table.table[leaf]
		elem := Table()
		arr.array = append(arr.array, elem)
		child.children = make(map[string]*defNode)
		return child, elem, nil
	}

	if child == nil {
		child = newDefNode(stateExplicitTable)
		node.children[leaf] = child
		sub := Table()
		table.table[leaf] = sub
		return child, sub, nil
	}
	switch child.state {
	case stateImplicitTableByHeader:
		child.state = stateExplicitTable
		return child, table.table[leaf], nil
	case stateExplicitTable:
		return nil, nil, p.errf(offset, "table %q is already defined", joinKeys(keys))
	case stateArrayOfTables:
		return nil, nil, p.errf(offset, "%q is already defined as an array of tables", joinKeys(keys))
	case stateImplicitTableByKey:
		return nil, nil, p.errf(offset, "cannot redefine %q, it was created by a dotted key", joinKeys(keys))
	default:
		return nil, nil, p.errf(offset, "key %q is already defined as a value", joinKeys(keys))
	}
}

func joinKeys(keys []string) string {
	return strings.Join(keys, ".")
}
