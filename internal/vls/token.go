package vls

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"vls-mesh/internal/ops"
)

// Category classifies a program chunk.
type Category int

const (
	CategoryEmpty Category = iota // sign with nothing after it
	CategorySingle
	CategoryDouble
	CategoryTriple
	CategoryPower
	CategoryMaterial
	CategoryLighting
	CategoryUnknown
)

var categoryNames = [...]string{
	CategoryEmpty:    "empty",
	CategorySingle:   "single",
	CategoryDouble:   "double",
	CategoryTriple:   "triple",
	CategoryPower:    "power",
	CategoryMaterial: "material",
	CategoryLighting: "lighting",
	CategoryUnknown:  "unknown",
}

func (c Category) String() string {
	if int(c) >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Sign is the explicit mode prefix of a chunk.
type Sign int

const (
	SignNone Sign = iota
	SignAdditive
	SignSubtractive
)

func (s Sign) String() string {
	switch s {
	case SignAdditive:
		return "+"
	case SignSubtractive:
		return "-"
	}
	return ""
}

// Token is one classified chunk of a program.
type Token struct {
	Index    int    // position in the chunk sequence
	Raw      string // chunk text including its sign prefix
	Body     string // chunk text without sign
	Category Category
	Sign     Sign
	Code     string   // registry code for op and power tokens
	Spec     ops.Spec // registry entry for op tokens
	Arg      float64  // numeric suffix, valid when HasArg
	HasArg   bool
	Count    int    // N of power notation
	Problem  string // why a power chunk is malformed
}

// chunk is the raw splitter output.
type chunk struct {
	body string
	sign Sign
}

// split breaks a program on '-' separators.
//
// A '-' that starts the program or directly follows a separator is a
// subtractive sign on the next chunk, so "A--B" is A followed by -B and
// "-A" is -A. A '+' at the start of a chunk is an explicit additive sign.
// Hyphens inside [...] never split. Whitespace outside brackets is dropped.
// A separator that ends the program leaves an empty subtractive chunk.
func split(program string) []chunk {
	var (
		out      []chunk
		cur      strings.Builder
		sign     = SignNone
		depth    int
		trailing bool // last non-space rune was a separator
	)
	flush := func() {
		out = append(out, chunk{body: cur.String(), sign: sign})
		cur.Reset()
		sign = SignNone
	}

	for _, r := range program {
		if depth > 0 || !unicode.IsSpace(r) {
			trailing = false
		}
		switch {
		case r == '[':
			depth++
			cur.WriteRune(r)
		case r == ']':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case depth > 0:
			cur.WriteRune(r)
		case unicode.IsSpace(r):
		case r == '-':
			switch {
			case cur.Len() > 0:
				flush()
				trailing = true
			case sign == SignNone:
				sign = SignSubtractive
			default:
				// "---": the pending sign has nothing to attach to.
				flush()
				sign = SignSubtractive
			}
		case r == '+' && cur.Len() == 0:
			sign = SignAdditive
		default:
			cur.WriteRune(r)
		}
	}
	if trailing {
		sign = SignSubtractive
	}
	if cur.Len() > 0 || sign != SignNone {
		flush()
	}
	return out
}

var numericArg = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// parseArg reads an optional numeric suffix.
func parseArg(rest string) (float64, bool, bool) {
	if rest == "" {
		return 0, false, true
	}
	if !numericArg.MatchString(rest) {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, false, false
	}
	return v, true, true
}

// classify assigns a category, in priority order: power, triple, double,
// single, material, lighting, unknown.
func classify(index int, c chunk) Token {
	tok := Token{Index: index, Raw: c.sign.String() + c.body, Body: c.body, Sign: c.sign}
	body := c.body

	if body == "" {
		tok.Category = CategoryEmpty
		return tok
	}

	if i := strings.IndexByte(body, '^'); i >= 0 {
		tok.Category = CategoryPower
		tok.Code = body[:i]
		n, err := strconv.Atoi(body[i+1:])
		switch {
		case tok.Code == "":
			tok.Problem = "missing code before '^'"
		case err != nil:
			tok.Problem = fmt.Sprintf("count %q is not an integer", body[i+1:])
		case n < 0:
			tok.Problem = fmt.Sprintf("count %d is negative", n)
		default:
			tok.Count = n
			tok.Spec, _ = ops.Lookup(tok.Code)
		}
		return tok
	}

	if len(body) == 3 {
		if s, ok := ops.Triple(body); ok {
			tok.Category, tok.Code, tok.Spec = CategoryTriple, body, s
			return tok
		}
	}

	if len(body) >= 2 {
		if s, ok := ops.Double(body[:2]); ok {
			if arg, has, valid := parseArg(body[2:]); valid {
				tok.Category, tok.Code, tok.Spec = CategoryDouble, body[:2], s
				tok.Arg, tok.HasArg = arg, has
				return tok
			}
		}
	}

	if s, ok := ops.Single(body[:1]); ok {
		if arg, has, valid := parseArg(body[1:]); valid {
			tok.Category, tok.Code, tok.Spec = CategorySingle, body[:1], s
			tok.Arg, tok.HasArg = arg, has
			return tok
		}
	}

	first, _ := utf8.DecodeRuneInString(body)
	switch {
	case unicode.IsLower(first):
		tok.Category = CategoryMaterial
	case unicode.IsDigit(first):
		tok.Category = CategoryLighting
	default:
		tok.Category = CategoryUnknown
	}
	return tok
}

// Tokenize splits and classifies a program. It never fails; chunks it cannot
// place come back as CategoryUnknown.
func Tokenize(program string) []Token {
	chunks := split(program)
	toks := make([]Token, len(chunks))
	for i, c := range chunks {
		toks[i] = classify(i, c)
	}
	return toks
}
