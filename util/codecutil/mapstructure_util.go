package codecutil

import (
	"encoding"
	"reflect"

	"github.com/eluv-io/errors-go"
	"github.com/mitchellh/mapstructure"
)

type MapUnmarshaler interface {
	UnmarshalMap(m map[string]interface{}) error
}

var mapUnmarshaler = reflect.TypeOf((*MapUnmarshaler)(nil)).Elem()
var textUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// MapDecode decodes a parsed, generic source structure that was e.g.
// produced by unmarshaling JSON or YAML
//
//	var any interface{}
//	_ := json.Unmarshal(jsonText, &any)
//
// into the destination object dst (usually a pointer to a struct value). Any
// `json:...` tags defined on the destination structure's member fields will be
// used for unmarshaling (just like when unmarshaling JSON text).
//
// The implementation uses github.com/mitchellh/mapstructure to do the decoding,
// with the following special decoding hooks:
//   - decodes with the 'UnmarshalMap(m map[string]interface{}) error'
//     function if implemented by the destination object/field
//   - decodes with the 'UnmarshalText(text []byte) error' function if the
//     destination implements encoding.TextUnmarshaler
//
// Keys in the source that do not match any field of the destination are
// reported as errors.
func MapDecode(src interface{}, dst interface{}) error {
	return decode(src, dst, false)
}

// WeakMapDecode works like MapDecode, but additionally converts string values
// to the numeric or boolean type of the destination field. This is meant for
// sources where everything is a string, e.g. "key=value" pairs from the
// command line.
func WeakMapDecode(src interface{}, dst interface{}) error {
	return decode(src, dst, true)
}

func decode(src interface{}, dst interface{}, weak bool) error {
	e := errors.Template("MapDecode", errors.K.Invalid)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           dst,
		ErrorUnused:      true,
		WeaklyTypedInput: weak,
		DecodeHook:       decodeHook,
	})
	if err != nil {
		return e(err)
	}
	err = decoder.Decode(src)
	if err != nil {
		return e(err, "type", errors.TypeOf(dst))
	}
	return nil
}

func decodeHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	switch dt := data.(type) {
	case map[string]interface{}:
		t, ptr := resolve(t)
		if ptr.Implements(mapUnmarshaler) {
			instance := reflect.New(t)

			ret := instance.Interface()
			err := ret.(MapUnmarshaler).UnmarshalMap(dt)
			if err != nil {
				return nil, err
			}
			return ret, nil
		}
	case string:
		t, ptr := resolve(t)
		if ptr.Implements(textUnmarshaler) {
			instance := reflect.New(t)

			ret := instance.Interface()
			err := ret.(encoding.TextUnmarshaler).UnmarshalText([]byte(dt))
			if err != nil {
				return nil, err
			}
			return ret, nil
		}
	}

	return data, nil
}

func resolve(t reflect.Type) (reflect.Type, reflect.Type) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	ptr := reflect.PtrTo(t)
	return t, ptr
}
