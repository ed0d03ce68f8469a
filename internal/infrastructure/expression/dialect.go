// Package expression evaluates and statically checks mapping expressions.
//
// Mapping expressions are written in a SpEL-like dialect: variables carry a
// '#' sigil (#input.orderMetadata.orderId), '?.' navigates safely over null,
// 'a ?: b' is the elvis operator and 'null' is the null literal. Translate
// rewrites that dialect into expr-lang syntax, which does the actual parsing
// and execution. Closure pointers understood by expr-lang (#, #.field, #index,
// #acc) are left untouched.
package expression

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

var closurePointers = map[string]bool{
	"index": true,
	"acc":   true,
}

// Translate rewrites dialect-specific tokens outside string literals.
//
// Elvis has the lowest precedence in the dialect while expr-lang's '??' binds
// tighter than arithmetic and refuses to mix with it, so both operands are
// parenthesised: "a + b ?: c * 2" becomes "(a + b) ?? (c * 2)". An operand
// ends at the enclosing bracket, a comma or the ':' of a ternary it sits in.
func Translate(src string) string {
	t := &translator{out: make([]byte, 0, len(src)+8), starts: []int{0}}

	runes := []rune(src)
	var quote rune
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if quote != 0 {
			t.writeRune(r)
			if r == '\\' && i+1 < len(runes) {
				i++
				t.writeRune(runes[i])
			} else if r == quote {
				quote = 0
			}
			continue
		}

		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case r == '\'' || r == '"' || r == '`':
			quote = r
			t.writeRune(r)

		case r == '#' && isIdentStart(next):
			end := identEnd(runes, i+1)
			name := string(runes[i+1 : end])
			if closurePointers[name] {
				t.writeRune('#')
			}
			t.writeString(name)
			i = end - 1

		case r == '?' && next == ':':
			t.elvis()
			i++
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}

		case r == '?' && (next == '?' || next == '.'):
			t.writeRune(r)
			t.writeRune(next)
			i++

		case r == '?':
			t.ternary()

		case r == ':':
			t.colon()

		case r == ',':
			t.closeElvis()
			t.writeRune(r)
			t.starts[t.depth()] = len(t.out)

		case r == '(' || r == '[' || r == '{':
			t.writeRune(r)
			t.starts = append(t.starts, len(t.out))

		case r == ')' || r == ']' || r == '}':
			t.closeElvis()
			if t.depth() > 0 {
				t.starts = t.starts[:len(t.starts)-1]
			}
			t.writeRune(r)

		case isIdentStart(r):
			end := identEnd(runes, i)
			word := string(runes[i:end])
			if word == "null" && !bytes.HasSuffix(bytes.TrimRightFunc(t.out, unicode.IsSpace), []byte(".")) {
				word = "nil"
			}
			t.writeString(word)
			i = end - 1

		default:
			t.writeRune(r)
		}
	}

	for len(t.pending) > 0 {
		t.closeOne()
	}
	return string(t.out)
}

type pendingElvis struct {
	depth int
	// ternaries counts '?' opened inside the fallback whose ':' is still due.
	ternaries int
}

type translator struct {
	out []byte
	// starts holds, per bracket depth, where the current operand begins in out.
	starts  []int
	pending []pendingElvis
}

func (t *translator) depth() int {
	return len(t.starts) - 1
}

func (t *translator) writeRune(r rune) {
	t.out = utf8.AppendRune(t.out, r)
}

func (t *translator) writeString(s string) {
	t.out = append(t.out, s...)
}

func (t *translator) top() *pendingElvis {
	if len(t.pending) == 0 || t.pending[len(t.pending)-1].depth != t.depth() {
		return nil
	}
	return &t.pending[len(t.pending)-1]
}

func (t *translator) trimSpace() {
	t.out = bytes.TrimRightFunc(t.out, unicode.IsSpace)
}

// elvis wraps the operand written so far and opens the fallback group.
func (t *translator) elvis() {
	t.trimSpace()
	at := t.starts[t.depth()]
	for at < len(t.out) && (t.out[at] == ' ' || t.out[at] == '\t' || t.out[at] == '\n') {
		at++
	}
	t.out = append(t.out[:at], append([]byte{'('}, t.out[at:]...)...)
	t.writeString(") ?? (")
	t.pending = append(t.pending, pendingElvis{depth: t.depth()})
	t.starts[t.depth()] = len(t.out)
}

func (t *translator) ternary() {
	t.writeRune('?')
	if p := t.top(); p != nil {
		p.ternaries++
	}
	t.starts[t.depth()] = len(t.out)
}

func (t *translator) colon() {
	if p := t.top(); p != nil && p.ternaries > 0 {
		p.ternaries--
	} else {
		t.closeElvis()
	}
	t.writeRune(':')
	t.starts[t.depth()] = len(t.out)
}

// closeElvis ends every fallback group open at the current depth.
func (t *translator) closeElvis() {
	for t.top() != nil {
		t.closeOne()
	}
}

func (t *translator) closeOne() {
	t.trimSpace()
	t.writeRune(')')
	t.pending = t.pending[:len(t.pending)-1]
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func identEnd(runes []rune, start int) int {
	end := start
	for end < len(runes) && (runes[end] == '_' || runes[end] == '$' || unicode.IsLetter(runes[end]) || unicode.IsDigit(runes[end])) {
		end++
	}
	return end
}
