package log

import (
	"fmt"

	"go.uber.org/zap"
)

// extraKey holds a trailing value that has no key.
const extraKey = "extra"

// toFields turns logr style key/value pairs into zap fields. A zap.Field or
// a bare error may stand on its own between pairs. Keys that are not strings
// are printed with fmt, and zap.Any picks the field type of each value.
func toFields(args ...any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	fields := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case zap.Field:
			fields = append(fields, v)
			continue
		case error:
			fields = append(fields, zap.Error(v))
			continue
		}

		if i == len(args)-1 {
			fields = append(fields, zap.Any(extraKey, args[i]))
			break
		}

		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields = append(fields, zap.Any(key, args[i+1]))
		i++
	}
	return fields
}
