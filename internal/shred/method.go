package shred

import (
	"crypto/rand"
	"fmt"
)

// Method selects the overwrite algorithm
type Method string

const (
	MethodZero   Method = "zero"
	MethodRandom Method = "random"
	MethodDoD    Method = "dod"
	MethodAES    Method = "aes"
)

// ParseMethod validates a method name
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	switch m {
	case MethodZero, MethodRandom, MethodDoD, MethodAES:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown method %q", ErrInvalidArgument, s)
	}
}

// PassCount returns the number of overwrite passes the method performs
// for a requested pass count. DoD 5220.22-M is fixed at 3 passes and the
// AES scramble is a single transformation; both ignore the request.
func (m Method) PassCount(requested int) int {
	switch m {
	case MethodDoD:
		return 3
	case MethodAES:
		return 1
	default:
		return requested
	}
}

// fillPattern produces the bytes written on one pass of the method.
// Zero fill reuses a caller-provided scratch buffer; the random methods
// draw fresh bytes from crypto/rand on every call.
func fillPattern(m Method, buf []byte) error {
	switch m {
	case MethodZero:
		for i := range buf {
			buf[i] = 0
		}
		return nil
	case MethodRandom, MethodDoD:
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generate random pattern: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: no fill pattern for method %q", ErrInvalidArgument, m)
	}
}
