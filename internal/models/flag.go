package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Flag is a boolean that also accepts the "true"/"false" strings written by
// older revisions of the teachers collection. It is always written back as a bool.
type Flag bool

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (f *Flag) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeBoolean:
		*f = Flag(rv.Boolean())
	case bson.TypeString:
		b, err := parseFlag(rv.StringValue())
		if err != nil {
			return err
		}
		*f = Flag(b)
	case bson.TypeNull, bson.TypeUndefined:
		*f = false
	default:
		return fmt.Errorf("mcaTeacher: cannot decode %s into a flag", t)
	}
	return nil
}

// UnmarshalJSON accepts true, false, "true" and "false".
func (f *Flag) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch vv := v.(type) {
	case bool:
		*f = Flag(vv)
	case string:
		parsed, err := parseFlag(vv)
		if err != nil {
			return err
		}
		*f = Flag(parsed)
	case nil:
		*f = false
	default:
		return fmt.Errorf("mcaTeacher: unsupported value %s", string(b))
	}
	return nil
}

func parseFlag(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("mcaTeacher: %w", err)
	}
	return b, nil
}
