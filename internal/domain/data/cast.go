package data

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
	"github.com/leengari/table-algebra/internal/domain/schema"
	"github.com/leengari/table-algebra/internal/validation"
)

// Cast converts v to the canonical representation of a column type.
// NULL casts to NULL for every type.
func Cast(v interface{}, typ schema.ColumnType) (interface{}, error) {
	if v == nil || typ == schema.ColumnTypeNull {
		if v != nil {
			return nil, &dberrors.CastError{Value: v, Target: string(typ), Reason: "only NULL fits a NULL column"}
		}
		return nil, nil
	}

	switch typ {
	case schema.ColumnTypeInt:
		return castInt(v)
	case schema.ColumnTypeFloat:
		return castFloat(v)
	case schema.ColumnTypeDecimal:
		return castDecimal(v)
	case schema.ColumnTypeBool:
		return castBool(v)
	case schema.ColumnTypeText:
		s, ok := v.(string)
		if !ok {
			return nil, &dberrors.CastError{Value: v, Target: string(typ)}
		}
		return s, nil
	case schema.ColumnTypeDate, schema.ColumnTypeTime, schema.ColumnTypeEmail:
		return castTextual(v, typ)
	}
	return nil, &dberrors.CastError{Value: v, Target: string(typ), Reason: "unknown column type"}
}

func castInt(v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float32:
		return castInt(float64(n))
	case float64:
		// JSON numbers arrive as float64; only whole values are accepted.
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return nil, &dberrors.CastError{Value: v, Target: string(schema.ColumnTypeInt), Reason: "not a whole number"}
		}
		return int64(n), nil
	case decimal.Decimal:
		if !n.IsInteger() {
			return nil, &dberrors.CastError{Value: v, Target: string(schema.ColumnTypeInt), Reason: "not a whole number"}
		}
		return n.IntPart(), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return nil, &dberrors.CastError{Value: v, Target: string(schema.ColumnTypeInt), Reason: err.Error()}
		}
		return i, nil
	}
	return nil, &dberrors.CastError{Value: v, Target: string(schema.ColumnTypeInt)}
}

func castFloat(v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case int, int32, int64, float32, float64, decimal.Decimal:
		return toFloat(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, &dberrors.CastError{Value: v, Target: string(schema.ColumnTypeFloat), Reason: err.Error()}
		}
		return f, nil
	}
	return nil, &dberrors.CastError{Value: v, Target: string(schema.ColumnTypeFloat)}
}

func castDecimal(v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case int, int32, int64, float32, float64:
		return toDecimal(n), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return nil, &dberrors.CastError{Value: v, Target: string(schema.ColumnTypeDecimal), Reason: err.Error()}
		}
		return d, nil
	}
	return nil, &dberrors.CastError{Value: v, Target: string(schema.ColumnTypeDecimal)}
}

func castBool(v interface{}) (interface{}, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return nil, &dberrors.CastError{Value: v, Target: string(schema.ColumnTypeBool), Reason: err.Error()}
		}
		return parsed, nil
	}
	return nil, &dberrors.CastError{Value: v, Target: string(schema.ColumnTypeBool)}
}

func castTextual(v interface{}, typ schema.ColumnType) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return nil, &dberrors.CastError{Value: v, Target: string(typ), Reason: "expected a string literal"}
	}

	var err error
	switch typ {
	case schema.ColumnTypeDate:
		err = validation.ValidateDate(s)
	case schema.ColumnTypeTime:
		s, err = validation.ValidateTime(s)
	case schema.ColumnTypeEmail:
		err = validation.ValidateEmail(s)
	}
	if err != nil {
		return nil, &dberrors.CastError{Value: v, Target: string(typ), Reason: err.Error()}
	}
	return s, nil
}

// Format renders a value for display. NULL renders as "NULL".
func Format(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
