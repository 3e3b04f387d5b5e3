package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-stepform/pkg/visibility"
)

// Evaluator is a small, dependency-free rule evaluator for conditional fields.
//
// Supported forms:
//   - truthiness: `agreeTerms`, `!upiId`
//   - comparisons against literals: `accountType == "Current"`, `count != 3`
//   - comparisons against other fields: `confirmPassword == password`
//   - numeric ordering: `amount >= 100`, `amount < limit`
//   - composition: `a == true && (b != "" || c)`
//
// Identifiers read from visibility.Context.Values (with dot-path traversal)
// or from visibility.Context.Extras via the `extras.` prefix. A bare
// identifier on the right-hand side compares against that field when it
// exists and against the identifier text otherwise.
type Evaluator struct{}

func New() *Evaluator { return &Evaluator{} }

// Rule is a compiled rule.
type Rule struct {
	source string
	root   exprNode
}

// Source returns the original rule text.
func (r Rule) Source() string { return r.source }

// Eval evaluates the compiled rule. An empty rule is always true.
func (r Rule) Eval(ctx visibility.Context) (bool, error) {
	if r.root == nil {
		return true, nil
	}
	return r.root.eval(ctx)
}

// Compile parses rule once so it can be evaluated repeatedly.
func Compile(rule string) (Rule, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return Rule{}, nil
	}
	tokens, err := tokenize(trimmed)
	if err != nil {
		return Rule{}, err
	}
	if len(tokens) == 0 {
		return Rule{source: trimmed}, nil
	}
	root, err := parseExpression(tokens)
	if err != nil {
		return Rule{}, err
	}
	return Rule{source: trimmed, root: root}, nil
}

func (e *Evaluator) Eval(fieldName, rule string, ctx visibility.Context) (bool, error) {
	_ = fieldName
	compiled, err := Compile(rule)
	if err != nil {
		return false, err
	}
	return compiled.Eval(ctx)
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func isComparison(kind tokenKind) bool {
	switch kind {
	case tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte:
		return true
	default:
		return false
	}
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func() byte {
		if i >= len(input) {
			return 0
		}
		return input[i]
	}

	for i < len(input) {
		ch := peek()
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			i++
			continue
		}

		switch ch {
		case '(':
			i++
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			continue
		case ')':
			i++
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			continue
		case '!':
			i++
			if peek() == '=' {
				i++
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				continue
			}
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			continue
		case '=':
			i++
			if peek() != '=' {
				return nil, fmt.Errorf("visibility/expr: unexpected '='; use '=='")
			}
			i++
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
			continue
		case '<', '>':
			i++
			orEqual := peek() == '='
			if orEqual {
				i++
			}
			switch {
			case ch == '<' && orEqual:
				tokens = append(tokens, token{kind: tokenLte, raw: "<="})
			case ch == '<':
				tokens = append(tokens, token{kind: tokenLt, raw: "<"})
			case orEqual:
				tokens = append(tokens, token{kind: tokenGte, raw: ">="})
			default:
				tokens = append(tokens, token{kind: tokenGt, raw: ">"})
			}
			continue
		case '&':
			i++
			if peek() != '&' {
				return nil, fmt.Errorf("visibility/expr: unexpected '&'; use '&&'")
			}
			i++
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
			continue
		case '|':
			i++
			if peek() != '|' {
				return nil, fmt.Errorf("visibility/expr: unexpected '|'; use '||'")
			}
			i++
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
			continue
		case '"', '\'':
			tok, next, err := readString(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
			continue
		}

		start := i
		for i < len(input) && !isDelimiter(input[i]) {
			i++
		}
		raw := input[start:i]
		switch strings.ToLower(raw) {
		case "true", "false":
			tokens = append(tokens, token{kind: tokenBool, raw: strings.ToLower(raw)})
		case "null", "nil":
			tokens = append(tokens, token{kind: tokenNull, raw: "null"})
		default:
			if looksLikeNumber(raw) {
				tokens = append(tokens, token{kind: tokenNumber, raw: raw})
			} else {
				tokens = append(tokens, token{kind: tokenIdentifier, raw: raw})
			}
		}
	}

	return tokens, nil
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '!', '=', '&', '|', '<', '>', '"', '\'':
		return true
	default:
		return false
	}
}

func readString(input string, start int) (token, int, error) {
	quote := input[start]
	escaped := false
	for i := start + 1; i < len(input); i++ {
		c := input[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c != quote {
			continue
		}
		body := input[start+1 : i]
		if quote == '\'' {
			body = strings.ReplaceAll(body, `\'`, `'`)
			body = strings.ReplaceAll(body, `"`, `\"`)
		}
		value, err := strconv.Unquote(`"` + body + `"`)
		if err != nil {
			return token{}, 0, fmt.Errorf("visibility/expr: invalid string literal: %w", err)
		}
		return token{kind: tokenString, raw: value}, i + 1, nil
	}
	return token{}, 0, errors.New("visibility/expr: unterminated string literal")
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	ch := raw[0]
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+'
}

type exprNode interface {
	eval(ctx visibility.Context) (bool, error)
}

type exprOr struct {
	left  exprNode
	right exprNode
}

func (n exprOr) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return n.right.eval(ctx)
}

type exprAnd struct {
	left  exprNode
	right exprNode
}

func (n exprAnd) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return n.right.eval(ctx)
}

type exprNot struct {
	inner exprNode
}

func (n exprNot) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type operandKind int

const (
	opString operandKind = iota
	opNumber
	opBool
	opNull
	opField
)

type operand struct {
	kind operandKind
	raw  string
}

// resolve turns the right-hand operand into a concrete value. Field operands
// that do not resolve fall back to their text.
func (o operand) resolve(ctx visibility.Context) (any, operandKind, error) {
	switch o.kind {
	case opField:
		if value, ok := lookup(ctx, o.raw); ok {
			return value, opField, nil
		}
		return o.raw, opString, nil
	case opNumber:
		f, err := strconv.ParseFloat(o.raw, 64)
		if err != nil {
			return nil, opNumber, fmt.Errorf("visibility/expr: invalid number literal %q", o.raw)
		}
		return f, opNumber, nil
	case opBool:
		return o.raw == "true", opBool, nil
	case opNull:
		return nil, opNull, nil
	default:
		return o.raw, opString, nil
	}
}

type exprCompare struct {
	identifier string
	op         tokenKind
	right      operand
}

func (n exprCompare) eval(ctx visibility.Context) (bool, error) {
	left, _ := lookup(ctx, n.identifier)
	right, kind, err := n.right.resolve(ctx)
	if err != nil {
		return false, err
	}

	if isOrdering(n.op) {
		l, lok := coerceNumber(left)
		r, rok := coerceNumber(right)
		if !lok || !rok {
			return false, nil
		}
		switch n.op {
		case tokenLt:
			return l < r, nil
		case tokenLte:
			return l <= r, nil
		case tokenGt:
			return l > r, nil
		default:
			return l >= r, nil
		}
	}

	var equal bool
	switch kind {
	case opNull:
		equal = left == nil
	case opBool:
		got, _ := coerceBool(left)
		equal = got == right.(bool)
	case opNumber:
		got, ok := coerceNumber(left)
		equal = ok && got == right.(float64)
	case opField:
		equal = valuesEqual(left, right)
	default:
		equal = coerceString(left) == right.(string)
	}

	if n.op == tokenEq {
		return equal, nil
	}
	return !equal, nil
}

func isOrdering(kind tokenKind) bool {
	return kind == tokenLt || kind == tokenLte || kind == tokenGt || kind == tokenGte
}

func valuesEqual(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	if l, ok := coerceNumber(left); ok {
		if r, ok := coerceNumber(right); ok {
			return l == r
		}
	}
	if l, ok := left.(bool); ok {
		r, ok := right.(bool)
		return ok && l == r
	}
	return coerceString(left) == coerceString(right)
}

type exprTruthy struct {
	identifier string
}

func (n exprTruthy) eval(ctx visibility.Context) (bool, error) {
	value, ok := lookup(ctx, n.identifier)
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseExpression(tokens []token) (exprNode, error) {
	stream := &tokenStream{tokens: tokens}
	node, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node, nil
}

func parseOr(stream *tokenStream) (exprNode, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = exprOr{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (exprNode, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = exprAnd{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := stream.consume(tokenIdentifier)
	if !ok {
		if stream.pos >= len(stream.tokens) {
			return nil, errors.New("visibility/expr: empty expression")
		}
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", stream.tokens[stream.pos].raw)
	}

	if stream.pos < len(stream.tokens) && isComparison(stream.tokens[stream.pos].kind) {
		op := stream.tokens[stream.pos].kind
		stream.pos++
		right, err := stream.consumeOperand()
		if err != nil {
			return nil, err
		}
		if isOrdering(op) && (right.kind == opBool || right.kind == opNull || right.kind == opString) {
			return nil, fmt.Errorf("visibility/expr: ordering operators need numeric operands near %q", ident.raw)
		}
		return exprCompare{identifier: ident.raw, op: op, right: right}, nil
	}

	return exprTruthy{identifier: ident.raw}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func (s *tokenStream) consumeOperand() (operand, error) {
	if s.pos >= len(s.tokens) {
		return operand{}, errors.New("visibility/expr: missing right-hand operand")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenString:
		return operand{kind: opString, raw: tok.raw}, nil
	case tokenNumber:
		return operand{kind: opNumber, raw: tok.raw}, nil
	case tokenBool:
		return operand{kind: opBool, raw: tok.raw}, nil
	case tokenNull:
		return operand{kind: opNull, raw: "null"}, nil
	case tokenIdentifier:
		return operand{kind: opField, raw: tok.raw}, nil
	default:
		return operand{}, fmt.Errorf("visibility/expr: expected operand, got %q", tok.raw)
	}
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	if strings.HasPrefix(strings.ToLower(key), "extras.") {
		return lookupMap(ctx.Extras, strings.TrimSpace(key[len("extras."):]))
	}
	return lookupMap(ctx.Values, key)
}

func lookupMap(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0 && v == v
	case int:
		return v != 0
	case int64:
		return v != 0
	default:
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	default:
		return truthy(value), true
	}
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, v == v
	case float32:
		return float64(v), v == v
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil && f == f
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
