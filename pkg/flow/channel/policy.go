package channel

import (
	"fmt"
	"strings"

	"github.com/ib-77/chanflow/pkg/flow"
)

// Policy decides what Add does on a full channel.
type Policy int

const (
	// WaitForSpace blocks the writer until a value is taken or the channel closes.
	WaitForSpace Policy = iota
	// OverwriteLast drops the most recently added value to make room.
	OverwriteLast
)

func (p Policy) String() string {
	switch p {
	case WaitForSpace:
		return "wait_for_space"
	case OverwriteLast:
		return "overwrite_last"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

func (p Policy) valid() bool {
	return p == WaitForSpace || p == OverwriteLast
}

// ParsePolicy accepts the names produced by Policy.String, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wait_for_space", "wait":
		return WaitForSpace, nil
	case "overwrite_last", "overwrite":
		return OverwriteLast, nil
	}
	return WaitForSpace, fmt.Errorf("%w: %q", flow.ErrUnknownPolicy, s)
}
