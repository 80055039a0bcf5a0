package seq

import (
	"strconv"

	"github.com/eluv-io/errors-go"
)

// Field identifies a single parameter of the sequence configuration.
type Field int

const (
	FieldBegin Field = iota
	FieldEnd
	FieldStep
	FieldDelimiter
)

var fieldNames = [...]string{
	FieldBegin:     "begin",
	FieldEnd:       "end",
	FieldStep:      "step",
	FieldDelimiter: "delimiter",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "field(" + strconv.Itoa(int(f)) + ")"
	}
	return fieldNames[f]
}

// ParseField parses the name of a field: begin, end, step or delimiter.
func ParseField(s string) (Field, error) {
	for i, name := range fieldNames {
		if s == name {
			return Field(i), nil
		}
	}
	return 0, errors.E("ParseField", errors.K.NotImplemented,
		"reason", ReasonUnsupportedOperation,
		"field", s)
}

// Command is a control request on a single field.
type Command int

const (
	GetBegin Command = iota
	GetEnd
	GetStep
	GetDelimiter
	SetDelimiter
)

var commands = [...]struct {
	verb  string
	field Field
}{
	GetBegin:     {"get", FieldBegin},
	GetEnd:       {"get", FieldEnd},
	GetStep:      {"get", FieldStep},
	GetDelimiter: {"get", FieldDelimiter},
	SetDelimiter: {"set", FieldDelimiter},
}

func (c Command) valid() bool {
	return c >= 0 && int(c) < len(commands)
}

func (c Command) String() string {
	if !c.valid() {
		return "command(" + strconv.Itoa(int(c)) + ")"
	}
	return commands[c].verb + " " + commands[c].field.String()
}

// Field returns the field the command operates on.
func (c Command) Field() Field {
	if !c.valid() {
		return -1
	}
	return commands[c].field
}

// ParseCommand maps a verb ("get" or "set") and a field name to a command.
// Every field can be read, only the delimiter can be set.
func ParseCommand(verb, field string) (Command, error) {
	for i, cmd := range commands {
		if cmd.verb == verb && cmd.field.String() == field {
			return Command(i), nil
		}
	}
	return 0, errors.E("ParseCommand", errors.K.NotImplemented,
		"reason", ReasonUnsupportedOperation,
		"verb", verb,
		"field", field)
}

// Value is the result of a control request: an integer for begin, end and
// step, a byte for the delimiter.
type Value struct {
	Field Field `json:"field"`
	Int   int64 `json:"int,omitempty"`
	Byte  byte  `json:"byte,omitempty"`
}

// String returns the value as decimal integer, or the delimiter as single
// character.
func (v Value) String() string {
	if v.Field == FieldDelimiter {
		return string([]byte{v.Byte})
	}
	return strconv.FormatInt(v.Int, 10)
}

// ControlChannel gives direct access to the individual fields of the
// configuration. Every call is atomic with respect to all other accesses of
// the configuration. There is deliberately no bulk setter: begin, step and end
// are only changed through the Reconfigurer.
type ControlChannel struct {
	cfg *SequenceConfig
}

func NewControlChannel(cfg *SequenceConfig) *ControlChannel {
	return &ControlChannel{cfg: cfg}
}

func (c *ControlChannel) GetBegin() int64 {
	return c.cfg.Begin()
}

func (c *ControlChannel) GetEnd() int64 {
	return c.cfg.End()
}

func (c *ControlChannel) GetStep() int64 {
	return c.cfg.Step()
}

func (c *ControlChannel) GetDelimiter() byte {
	return c.cfg.Delimiter()
}

// SetDelimiter sets the delimiter. Any byte is legal, including non-printable
// ones.
func (c *ControlChannel) SetDelimiter(d byte) error {
	c.cfg.SetDelimiter(d)
	return nil
}

// Do dispatches the given command. arg is only used by SetDelimiter; the
// returned value is only meaningful for the get commands.
func (c *ControlChannel) Do(cmd Command, arg byte) (Value, error) {
	switch cmd {
	case GetBegin:
		return Value{Field: FieldBegin, Int: c.GetBegin()}, nil
	case GetEnd:
		return Value{Field: FieldEnd, Int: c.GetEnd()}, nil
	case GetStep:
		return Value{Field: FieldStep, Int: c.GetStep()}, nil
	case GetDelimiter:
		return Value{Field: FieldDelimiter, Byte: c.GetDelimiter()}, nil
	case SetDelimiter:
		return Value{Field: FieldDelimiter, Byte: arg}, c.SetDelimiter(arg)
	}
	return Value{}, errors.E("ControlChannel.Do", errors.K.NotImplemented,
		"reason", ReasonUnsupportedOperation,
		"command", cmd)
}

// Get returns the current value of the given field.
func (c *ControlChannel) Get(f Field) (Value, error) {
	cmd, err := ParseCommand("get", f.String())
	if err != nil {
		return Value{}, err
	}
	return c.Do(cmd, 0)
}

// Set sets the given field. Only the delimiter can be set.
func (c *ControlChannel) Set(f Field, value byte) error {
	cmd, err := ParseCommand("set", f.String())
	if err != nil {
		return err
	}
	_, err = c.Do(cmd, value)
	return err
}
