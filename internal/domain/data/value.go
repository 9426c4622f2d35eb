package data

import (
	"cmp"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Values are opaque to the composition layer. NULL is represented by nil;
// other values are int64, float64, decimal.Decimal, string or bool once
// cast to a column type.

// IsNull reports whether v is the NULL value.
func IsNull(v interface{}) bool {
	return v == nil
}

// kind orders values of different families so that Compare is total.
type kind int

const (
	kindNull kind = iota
	kindBool
	kindNumber
	kindString
	kindOther
)

func kindOf(v interface{}) kind {
	switch v.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBool
	case int, int32, int64, float32, float64, decimal.Decimal:
		return kindNumber
	case string:
		return kindString
	default:
		return kindOther
	}
}

// Compare orders two values. NULL sorts first, then booleans, numbers,
// strings; values of unrelated families compare by family. Numbers of
// different representations compare by numeric value.
func Compare(a, b interface{}) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}

	switch ka {
	case kindNull:
		return 0
	case kindBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case kindNumber:
		return compareNumbers(a, b)
	case kindString:
		return strings.Compare(a.(string), b.(string))
	}
	// Unknown families fall back to their printed form.
	return strings.Compare(Format(a), Format(b))
}

// Equal reports whether Compare(a, b) == 0.
func Equal(a, b interface{}) bool {
	return Compare(a, b) == 0
}

func compareNumbers(a, b interface{}) int {
	da, aDec := a.(decimal.Decimal)
	db, bDec := b.(decimal.Decimal)
	if aDec || bDec {
		if !aDec {
			da = toDecimal(a)
		}
		if !bDec {
			db = toDecimal(b)
		}
		return da.Cmp(db)
	}

	ia, aInt := toInt(a)
	ib, bInt := toInt(b)
	if aInt && bInt {
		return cmp.Compare(ia, ib)
	}
	return cmp.Compare(toFloat(a), toFloat(b))
}

func toInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	case decimal.Decimal:
		return n.InexactFloat64()
	}
	return math.NaN()
}

func toDecimal(v interface{}) decimal.Decimal {
	if i, ok := toInt(v); ok {
		return decimal.NewFromInt(i)
	}
	return decimal.NewFromFloat(toFloat(v))
}
