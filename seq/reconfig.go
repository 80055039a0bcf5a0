package seq

import (
	"bytes"
	"strconv"

	"github.com/eluv-io/errors-go"
)

// maxPayloadTokens is the maximum number of integers in a write payload.
const maxPayloadTokens = 3

// ParsePayload parses a write payload consisting of 1 to 3 whitespace
// separated decimal integers into the sequence parameters:
//
//	"E"     -> begin=1, step=1, end=E
//	"B E"   -> begin=B, step=1, end=E
//	"B S E" -> begin=B, step=S, end=E
//
// Returns an InvalidConfigFormat error for an empty payload, more than 3
// tokens or a token that is not an integer, and an InvalidArgument error if
// the step is zero.
func ParsePayload(payload []byte) (begin, step, end int64, err error) {
	e := errors.Template("ParsePayload", errors.K.Invalid, "reason", ReasonInvalidConfigFormat)

	tokens := bytes.Fields(payload)
	if len(tokens) == 0 || len(tokens) > maxPayloadTokens {
		return 0, 0, 0, e("count", len(tokens), "payload", string(payload))
	}

	var values [maxPayloadTokens]int64
	for i, token := range tokens {
		values[i], err = strconv.ParseInt(string(token), 10, 64)
		if err != nil {
			return 0, 0, 0, e(err, "token", string(token))
		}
	}

	begin, step = DefaultBegin, DefaultStep
	switch len(tokens) {
	case 1:
		end = values[0]
	case 2:
		begin, end = values[0], values[1]
	case 3:
		begin, step, end = values[0], values[1], values[2]
	}

	if step == 0 {
		return 0, 0, 0, errors.E("ParsePayload", errors.K.Invalid,
			"reason", ReasonInvalidArgument,
			"details", "step must not be zero",
			"payload", string(payload))
	}
	return begin, step, end, nil
}

// Reconfigurer resets the shared sequence from write payloads.
type Reconfigurer struct {
	cfg *SequenceConfig
}

func NewReconfigurer(cfg *SequenceConfig) *Reconfigurer {
	return &Reconfigurer{cfg: cfg}
}

// Write parses the payload (see ParsePayload) and replaces begin, step and end
// of the configuration in one atomic update. On success, the whole payload
// counts as consumed. On failure, the configuration is left unchanged.
func (r *Reconfigurer) Write(payload []byte) (int, error) {
	_, err := r.Apply(payload)
	if err != nil {
		return 0, err
	}
	return len(payload), nil
}

// Apply is like Write, but returns the configuration that was installed.
func (r *Reconfigurer) Apply(payload []byte) (Snapshot, error) {
	begin, step, end, err := ParsePayload(payload)
	if err != nil {
		return Snapshot{}, err
	}
	return r.cfg.replace(begin, step, end)
}
