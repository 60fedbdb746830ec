package builder

import "github.com/cwbudde/slscript/internal/sltype"

func isNumberType(t *sltype.Type) bool { return t == sltype.NumberType }
func isStringType(t *sltype.Type) bool { return t == sltype.StringType }
