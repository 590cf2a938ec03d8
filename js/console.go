package js

import (
	"context"
	"encoding/json"
	"log/slog"
	"reflect"
	"strings"

	"github.com/grafana/sobek"
)

// EnableConsole set the console global, writing to the Logger of the VM context.
func EnableConsole(rt *sobek.Runtime, attrs ...slog.Attr) {
	c := &console{rt: rt, attrs: attrs}
	obj := rt.NewObject()
	_ = obj.Set("log", c.printer(slog.LevelInfo))
	_ = obj.Set("info", c.printer(slog.LevelInfo))
	_ = obj.Set("debug", c.printer(slog.LevelDebug))
	_ = obj.Set("warn", c.printer(slog.LevelWarn))
	_ = obj.Set("error", c.printer(slog.LevelError))
	_ = rt.Set("console", obj)
}

type console struct {
	rt    *sobek.Runtime
	attrs []slog.Attr
}

func (c *console) printer(level slog.Level) func(sobek.FunctionCall) sobek.Value {
	return func(call sobek.FunctionCall) sobek.Value {
		var msg string
		if len(call.Arguments) > 0 {
			msg = Format(c.rt, call.Arguments[0], call.Arguments[1:]...).String()
		}
		ctx := Context(c.rt)
		Logger(ctx).LogAttrs(ctx, level, msg, c.attrs...)
		return sobek.Undefined()
	}
}

// Format formats the values the way console.log prints them.
// A string message is a format string: %s %d %i %f %j %o %O consume the args
// in order and %% is a literal percent. Remaining args are appended,
// separated by a space.
func Format(rt *sobek.Runtime, msg sobek.Value, args ...sobek.Value) sobek.Value {
	if msg == nil || sobek.IsUndefined(msg) {
		return sobek.Undefined()
	}

	var b strings.Builder
	if isString(msg) {
		if len(args) == 0 {
			return msg
		}
		args = substitute(rt, &b, msg.String(), args)
	} else {
		b.WriteString(Inspect(rt, msg))
	}
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(Inspect(rt, arg))
	}
	return rt.ToValue(b.String())
}

// substitute writes the format string, returning the args it did not consume.
func substitute(rt *sobek.Runtime, b *strings.Builder, format string, args []sobek.Value) []sobek.Value {
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' || i+1 == len(format) {
			b.WriteByte(ch)
			continue
		}
		verb := format[i+1]
		switch {
		case verb == '%':
			b.WriteByte('%')
			i++
		case len(args) > 0 && strings.IndexByte("sdifjoO", verb) >= 0:
			b.WriteString(formatVerb(rt, verb, args[0]))
			args = args[1:]
			i++
		default:
			b.WriteByte(ch)
		}
	}
	return args
}

func formatVerb(rt *sobek.Runtime, verb byte, value sobek.Value) string {
	switch verb {
	case 'd', 'f':
		return value.ToNumber().String()
	case 'i':
		return rt.ToValue(value.ToInteger()).String()
	case 'j':
		if s, ok := stringify(value); ok {
			return s
		}
		return "undefined"
	case 's':
		if !isObject(value) {
			return value.String()
		}
	}
	return Inspect(rt, value)
}

// Inspect returns the printable form of the value. Objects with their own
// toString, such as DOM elements and events, print through it. Other
// objects print as JSON.
func Inspect(rt *sobek.Runtime, value sobek.Value) string {
	obj, ok := value.(*sobek.Object)
	if !ok {
		return value.String()
	}
	if _, ok := sobek.AssertFunction(obj); ok {
		return "[Function: " + obj.Get("name").String() + "]"
	}
	if obj.ClassName() != "Array" {
		if s, ok := ownString(rt, obj); ok {
			return s
		}
	}
	if s, ok := stringify(obj); ok {
		return s
	}
	return obj.String()
}

// ownString calls the toString of the object unless it is the one inherited
// from Object.prototype.
func ownString(rt *sobek.Runtime, obj *sobek.Object) (string, bool) {
	toString := obj.Get("toString")
	fn, ok := sobek.AssertFunction(toString)
	if !ok {
		return "", false
	}
	proto := rt.Get("Object").ToObject(rt).Get("prototype").ToObject(rt)
	if toString.SameAs(proto.Get("toString")) {
		return "", false
	}
	ret, err := fn(obj)
	if err != nil {
		return "", false
	}
	return ret.String(), true
}

func stringify(value sobek.Value) (string, bool) {
	if m, ok := value.(json.Marshaler); ok {
		if data, err := m.MarshalJSON(); err == nil {
			return string(data), true
		}
		return "", false
	}
	if sobek.IsUndefined(value) {
		return "", false
	}
	data, err := json.Marshal(value.Export())
	if err != nil {
		return "", false
	}
	return string(data), true
}

func isString(value sobek.Value) bool {
	t := value.ExportType()
	return !isObject(value) && t != nil && t.Kind() == reflect.String
}

func isObject(value sobek.Value) bool {
	_, ok := value.(*sobek.Object)
	return ok
}

type loggerKey struct{}

// Logger get slog.Logger from the context
func Logger(ctx context.Context) *slog.Logger {
	if logger := ctx.Value(loggerKey{}); logger != nil {
		return logger.(*slog.Logger)
	}
	return slog.Default()
}

// WithLogger set the slog.Logger to context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}
