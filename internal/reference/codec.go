// Package reference encodes the correlation string that ties a payment
// attempt to its order across the external provider round-trip.
package reference

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

const prefix = "ORDER"

var ErrMalformed = errors.New("reference: malformed")

// pattern is strict: fixed prefix, digit-only id and nonce, nothing else.
var pattern = regexp.MustCompile(`^ORDER_(\d+)_(\d+)$`)

// Ref is the decoded form of a reference.
type Ref struct {
	OrderID uint64
	Nonce   int64
}

// Encode builds "ORDER_<id>_<nonce>". The nonce must be unique per attempt;
// callers use epoch milliseconds so two initiations for the same order never
// collide.
func Encode(orderID uint64, nonce int64) string {
	return fmt.Sprintf("%s_%d_%d", prefix, orderID, nonce)
}

// Decode parses a single raw string. Anything that does not match the exact
// pattern is ErrMalformed; a missing or non-numeric id segment never defaults
// to zero.
func Decode(raw string) (Ref, error) {
	m := pattern.FindStringSubmatch(raw)
	if m == nil {
		return Ref{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}
	orderID, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: order id %q", ErrMalformed, m[1])
	}
	nonce, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: nonce %q", ErrMalformed, m[2])
	}
	return Ref{OrderID: orderID, Nonce: nonce}, nil
}

// DecodeFirst tries each candidate in order and returns the first that
// decodes, together with its raw form. Providers disagree about which query
// key carries the reference back, so callbacks hand over every plausible
// value. Empty candidates are skipped; if none decodes the last decode error
// is returned.
func DecodeFirst(candidates ...string) (string, Ref, error) {
	err := error(ErrMalformed)
	tried := false
	for _, c := range candidates {
		if c == "" {
			continue
		}
		tried = true
		ref, decErr := Decode(c)
		if decErr == nil {
			return c, ref, nil
		}
		err = decErr
	}
	if !tried {
		return "", Ref{}, fmt.Errorf("%w: no candidates", ErrMalformed)
	}
	return "", Ref{}, err
}
