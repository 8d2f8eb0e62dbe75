package term

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// JSON interchange form: List <-> array, Sym <-> string, Int/Float <-> number.
// This is the format rule files and persisted traces use.

// MarshalJSON implements json.Marshaler for List.
func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := MarshalExpr(e)
		if err != nil {
			return nil, fmt.Errorf("list[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalExpr marshals an expression to its JSON interchange form.
func MarshalExpr(e Expr) ([]byte, error) {
	switch v := e.(type) {
	case Int:
		return json.Marshal(int64(v))
	case Float:
		return json.Marshal(float64(v))
	case Sym:
		return json.Marshal(string(v))
	case List:
		return v.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown expression type: %T", e)
	}
}

// UnmarshalExpr decodes the JSON interchange form into an expression.
// Numbers without a fraction or exponent decode as Int, others as Float.
func UnmarshalExpr(data []byte) (Expr, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return fromAny(raw)
}

// FromAny converts a decoded JSON value (string/json.Number/[]any) into
// an expression. Used by the rule loaders after yaml/json decoding.
func FromAny(v any) (Expr, error) {
	return fromAny(v)
}

func fromAny(v any) (Expr, error) {
	switch val := v.(type) {
	case string:
		return Sym(val), nil
	case json.Number:
		s := string(val)
		if !strings.ContainsAny(s, ".eE") {
			n, err := val.Int64()
			if err != nil {
				return nil, fmt.Errorf("integer out of range: %s", s)
			}
			return Int(n), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("bad number: %s", s)
		}
		return Float(f), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case float64:
		if val == float64(int64(val)) {
			return Int(int64(val)), nil
		}
		return Float(val), nil
	case []any:
		l := make(List, len(val))
		for i, elem := range val {
			e, err := fromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			l[i] = e
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}
