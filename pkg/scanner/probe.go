package scanner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// ErrSyntax is returned for build scripts that do not parse as Rust
var ErrSyntax = errors.New("syntax error")

// Detector finds the library names passed to probe calls in Rust source
type Detector struct {
	method string
}

// NewDetector creates a Detector matching method calls named method.
func NewDetector(method string) *Detector {
	return &Detector{method: method}
}

// Detect parses src and returns every identifier passed to a probe call,
// either as a string literal or through a local bound to one. Results are in
// discovery order and may repeat.
func (d *Detector) Detect(ctx context.Context, src []byte) ([]string, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	// The whole file is dropped on any ERROR node, including constructs the
	// bundled grammar does not know yet.
	root := tree.RootNode()
	if root.HasError() {
		return nil, ErrSyntax
	}

	st := newProbeState()
	d.visit(root, src, st)
	return st.found, nil
}

// probeState is the accumulator threaded through the walk. Bindings are
// flat: every scope shares vars and a later let overwrites an earlier one.
type probeState struct {
	vars  map[string]string
	found []string
}

func newProbeState() *probeState {
	return &probeState{vars: make(map[string]string)}
}

func (d *Detector) visit(n *sitter.Node, src []byte, st *probeState) {
	switch n.Type() {
	case "let_declaration":
		d.bind(n, src, st)
	case "call_expression":
		if d.isProbeCall(n, src) {
			if id, ok := d.firstArgument(n, src, st); ok {
				st.found = append(st.found, id)
			}
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		d.visit(n.NamedChild(i), src, st)
	}
}

// bind records `let name = "literal";`. Any other pattern or initializer is
// ignored.
func (d *Detector) bind(n *sitter.Node, src []byte, st *probeState) {
	pattern := n.ChildByFieldName("pattern")
	value := n.ChildByFieldName("value")
	if pattern == nil || value == nil || pattern.Type() != "identifier" {
		return
	}
	if s, ok := stringValue(value, src); ok {
		st.vars[pattern.Content(src)] = s
	}
}

// isProbeCall matches `recv.probe(..)` and `recv.probe::<T>(..)`.
func (d *Detector) isProbeCall(call *sitter.Node, src []byte) bool {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return false
	}
	if fn.Type() == "generic_function" {
		fn = fn.ChildByFieldName("function")
		if fn == nil {
			return false
		}
	}
	if fn.Type() != "field_expression" {
		return false
	}
	field := fn.ChildByFieldName("field")
	return field != nil && field.Content(src) == d.method
}

func (d *Detector) firstArgument(call *sitter.Node, src []byte, st *probeState) (string, bool) {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return "", false
	}

	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "line_comment", "block_comment", "attribute_item":
			continue
		case "identifier":
			v, ok := st.vars[arg.Content(src)]
			return v, ok
		default:
			return stringValue(arg, src)
		}
	}
	return "", false
}

// stringValue returns the value of a string or raw string literal node.
func stringValue(n *sitter.Node, src []byte) (string, bool) {
	switch n.Type() {
	case "string_literal":
		return unquoteString(n.Content(src))
	case "raw_string_literal":
		return unquoteRaw(n.Content(src))
	default:
		return "", false
	}
}

// unquoteRaw strips r#"..."# delimiters. The body is taken verbatim. Raw
// byte and C strings (br"..", cr"..") are not text and are rejected.
func unquoteRaw(lit string) (string, bool) {
	if !strings.HasPrefix(lit, "r") {
		return "", false
	}
	lit = lit[1:]

	hashes := len(lit) - len(strings.TrimLeft(lit, "#"))
	if len(lit) < 2*hashes {
		return "", false
	}
	lit = lit[hashes : len(lit)-hashes]
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", false
	}
	return lit[1 : len(lit)-1], true
}

// unquoteString decodes a Rust string literal including its escapes. Byte
// and C strings (b"..", c"..") are rejected.
func unquoteString(lit string) (string, bool) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", false
	}
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body, true
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}

		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(body[i])
		case 'x':
			if i+2 >= len(body) {
				return "", false
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", false
			}
			b.WriteByte(byte(v))
			i += 2
		case 'u':
			end := strings.IndexByte(body[i:], '}')
			if end < 2 || body[i+1] != '{' {
				return "", false
			}
			hex := strings.ReplaceAll(body[i+2:i+end], "_", "")
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", false
			}
			b.WriteRune(rune(v))
			i += end
		case '\n':
			// Line continuation swallows the newline and leading whitespace.
			for i+1 < len(body) && strings.IndexByte(" \t\r\n", body[i+1]) >= 0 {
				i++
			}
		default:
			return "", false
		}
	}
	return b.String(), true
}
