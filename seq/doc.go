/*
Package seq implements a shared integer-sequence generator that is consumed
like a character device: any number of sessions open the Device, read the
sequence as a stream of formatted entries, reset it with a write payload and
query or set single parameters through a control channel.

There is a single SequenceConfig per Device (begin, step, end and delimiter),
shared and mutated concurrently by all sessions. Each Session has its own
cursor and output buffer:

	dev, _ := seq.New(nil) // 1, 2, 3, ... one value per line
	s, _ := dev.Open()
	defer dev.Close(s)

	_, _ = dev.Write(s, []byte("1 2 5")) // begin=1, step=2, end=5
	out, _ := dev.Read(s, 4096)          // "1\n3\n5\n"

A read never splits an entry: an entry that does not fit into the requested
size is returned by the next read. A read on an exhausted session returns an
empty result.

Write payloads consist of 1 to 3 integers, interpreted as "end", "begin end"
or "begin step end". The control channel reads any field and sets the
delimiter:

	v, _ := dev.ControlGet(s, seq.FieldEnd)
	_ = dev.ControlSet(s, seq.FieldDelimiter, ',')

Errors are errors-go errors classified by kind and "reason" field; use the
Is... predicates (IsInvalidConfigFormat, IsInvalidArgument, IsOutOfMemory,
IsUseAfterClose, IsUnsupportedOperation) to tell them apart.
*/
package seq
