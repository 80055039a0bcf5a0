package jsonutil

import (
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/eluv-io/errors-go"
)

// MarshalCompactString marshals the given value as compact JSON (no indenting,
// no newlines) and returns it as a string.
// The function panics if any errors occur.
func MarshalCompactString(v interface{}) string {
	res, err := json.Marshal(v)
	if err != nil {
		err = errors.E("marshal json", errors.K.Invalid, err, "object_dump", spew.Sdump(v))
		panic("Failed to marshal json: " + err.Error())
	}
	return string(res)
}

// MarshalString marshals the given value as indented JSON and returns it
// as a string.
// The function panics if any errors occur.
func MarshalString(v interface{}) string {
	res, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		err = errors.E("marshal json", errors.K.Invalid, err, "object_dump", spew.Sdump(v))
		panic("Failed to marshal json: " + err.Error())
	}
	return string(res)
}

// Stringer returns a wrapper around val whose String() function will simply
// return val's JSON representation. If val is a 'func() interface{}', it will
// call that function and marshal its return value. Use it to defer costly
// marshaling in log statements until the log entry is actually written:
//
//	log.Debug("device stats", "metrics", jsonutil.Stringer(dev.Metrics))
//
// Stringer also implements MarshalJSON and simply delegates to the wrapped
// value or the result of calling the function.
func Stringer(val interface{}) fmt.Stringer {
	return &stringer{val}
}

// stringer is a small decorator that returns the nested value's JSON
// representation in the String() function.
type stringer struct {
	val interface{}
}

func (s *stringer) value() interface{} {
	if fn, ok := s.val.(func() interface{}); ok {
		return fn()
	}
	return s.val
}

func (s *stringer) String() string {
	val := s.value()
	bts, err := json.Marshal(val)
	if err != nil {
		return fmt.Sprintf("%#v", val)
	}
	return string(bts)
}

func (s *stringer) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value())
}
