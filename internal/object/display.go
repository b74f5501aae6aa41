package object

import (
	"fmt"
	"strconv"
)

// Display renders a runtime value for human consumption: used by the
// `module:core` print builtin (internal/imports) and by diagnostics
// formatting when a literal operand needs to appear in a message.
func Display(o Object) string {
	switch v := o.(type) {
	case nil:
		return "null"
	case unitInstance:
		return "()"
	case BoolValue:
		return strconv.FormatBool(bool(v))
	case StringValue:
		return string(v)
	case IntValue:
		if v.Width.Arbitrary() {
			return v.Big
		}
		return strconv.FormatInt(v.Value, 10)
	case FloatValue:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case *Instance:
		return v.Class.Name + "{}"
	case *Class:
		return v.Name
	case *Function:
		return v.Name
	case *Method:
		return v.Owner.Name + "." + v.Name
	case *OverloadGroup:
		return v.Name
	default:
		return fmt.Sprintf("%v", o)
	}
}
