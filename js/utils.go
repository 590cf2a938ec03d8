package js

import (
	"context"
	"errors"
	"strconv"

	"github.com/grafana/sobek"
)

// Throw js exception
func Throw(rt *sobek.Runtime, err error) {
	var ex *sobek.Exception
	if errors.As(err, &ex) { //nolint:errorlint
		panic(ex)
	}
	panic(rt.NewGoError(err))
}

// Unwrap the sobek.Value to the raw value, nil for undefined or null.
func Unwrap(value sobek.Value) any {
	if value == nil || sobek.IsUndefined(value) || sobek.IsNull(value) {
		return nil
	}
	return value.Export()
}

// Context returns the context of the VM owning the sobek.Runtime
func Context(rt *sobek.Runtime) context.Context { return self(rt).ctx }

// Array returns the elements of an array value, nil for undefined or null.
// Any other value is returned as a single element.
func Array(value sobek.Value) []sobek.Value {
	if value == nil || sobek.IsUndefined(value) || sobek.IsNull(value) {
		return nil
	}
	obj, ok := value.(*sobek.Object)
	if !ok || obj.ClassName() != "Array" {
		return []sobek.Value{value}
	}
	n := int(obj.Get("length").ToInteger())
	ret := make([]sobek.Value, n)
	for i := range n {
		ret[i] = obj.Get(strconv.Itoa(i))
	}
	return ret
}
