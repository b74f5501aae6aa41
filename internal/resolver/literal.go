package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/funbit/pkg/funbit"

	"github.com/xpodev/miniz/internal/ast"
	"github.com/xpodev/miniz/internal/object"
)

// decodeLiteral turns a literal's raw lexeme into an object.Object
// (spec.md §3 ast.Literal: "Text decoding ... happens in the resolver
// name-linker pass, not here"). Integer literals carry an optional
// width/signedness suffix (i8/i16/i32/i64/u8/u16/u32/u64/I for
// arbitrary precision); an unsuffixed integer literal defaults to
// i32. Fixed-width decoding truncates and sign-extends through
// funbit's bit-syntax builder/matcher so the same width rules the
// language's own bit-level operators use apply to literal decoding
// too, rather than reimplementing two's-complement truncation by
// hand.
func decodeLiteral(lit *ast.Literal) (object.Object, error) {
	switch lit.Kind {
	case ast.LitInt:
		return decodeIntLiteral(lit.Text)
	case ast.LitFloat:
		return decodeFloatLiteral(lit.Text)
	case ast.LitString:
		return object.StringValue(decodeStringLiteral(lit.Text)), nil
	case ast.LitBool:
		return object.BoolValue(lit.Text == "true"), nil
	case ast.LitNull:
		return nil, nil // Null's sole value has no Go representation; callers check lit.Kind
	case ast.LitUnit:
		return object.UnitValue, nil
	default:
		return nil, fmt.Errorf("unknown literal kind %d", lit.Kind)
	}
}

var intSuffixes = map[string]object.IntWidth{
	"i8": object.Int8, "i16": object.Int16, "i32": object.Int32, "i64": object.Int64,
	"u8": object.UInt8, "u16": object.UInt16, "u32": object.UInt32, "u64": object.UInt64,
	"I": object.BigInt, "U": object.UBigInt,
}

// decodeIntLiteral decodes an integer literal's suffix; absence
// defaults to signed 32-bit (spec.md §4.2).
func decodeIntLiteral(text string) (object.IntValue, error) {
	digits, width := text, object.Int32
	for _, suf := range []string{"i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "I", "U"} {
		if strings.HasSuffix(text, suf) {
			digits = strings.TrimSuffix(text, suf)
			width = intSuffixes[suf]
			break
		}
	}
	digits = strings.ReplaceAll(digits, "_", "")

	if width.Arbitrary() {
		return object.IntValue{Width: width, Big: digits}, nil
	}

	raw, err := strconv.ParseInt(digits, 0, 64)
	if err != nil {
		// Value may exceed int64 range for an unsuffixed literal
		// destined for u64; retry unsigned before giving up.
		uraw, uerr := strconv.ParseUint(digits, 0, 64)
		if uerr != nil {
			return object.IntValue{}, fmt.Errorf("invalid integer literal %q: %w", text, err)
		}
		raw = int64(uraw)
	}

	truncated, err := truncateToWidth(raw, width)
	if err != nil {
		return object.IntValue{}, fmt.Errorf("literal %q: %w", text, err)
	}
	return object.IntValue{Width: width, Value: truncated}, nil
}

// truncateToWidth applies width's truncation/sign-extension rule to
// raw by round-tripping it through a funbit bitstring of that exact
// bit size: build an unsigned field at width.Bits(), then match it
// back out with the field's real signedness, so the two's-complement
// behavior is whatever the language's own bit-syntax evaluator
// produces for a value of that width.
func truncateToWidth(raw int64, width object.IntWidth) (int64, error) {
	bits := width.Bits()
	builder := funbit.NewBuilder()
	if err := funbit.AddInteger(builder, raw, funbit.WithSize(bits), funbit.WithSigned(width.Signed())); err != nil {
		return 0, err
	}
	bs, err := funbit.Build(builder)
	if err != nil {
		return 0, err
	}

	var out int64
	matcher := funbit.NewMatcher()
	funbit.Integer(matcher, &out, funbit.WithSize(bits), funbit.WithSigned(width.Signed()))
	if _, err := funbit.Match(matcher, bs); err != nil {
		return 0, err
	}
	return out, nil
}

// decodeFloatLiteral decodes a float literal's suffix; absence
// defaults to 32-bit (spec.md §4.2).
func decodeFloatLiteral(text string) (object.FloatValue, error) {
	width := object.Float32
	digits := text
	if strings.HasSuffix(text, "f32") {
		digits = strings.TrimSuffix(text, "f32")
	} else if strings.HasSuffix(text, "f64") {
		width, digits = object.Float64, strings.TrimSuffix(text, "f64")
	}
	bits := 32
	if width == object.Float64 {
		bits = 64
	}
	v, err := strconv.ParseFloat(digits, bits)
	if err != nil {
		return object.FloatValue{}, fmt.Errorf("invalid float literal %q: %w", text, err)
	}
	return object.FloatValue{Width: width, Value: v}, nil
}

// decodeStringLiteral strips the surrounding quotes and decodes the
// escape sequences the lexer left untouched in the raw lexeme.
func decodeStringLiteral(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	unquoted, err := strconv.Unquote(`"` + text + `"`)
	if err != nil {
		return text
	}
	return unquoted
}
