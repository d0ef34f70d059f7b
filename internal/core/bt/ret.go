package bt

import (
	"fmt"
	"strings"
)

// Ret is the result of ticking a node.
type Ret uint8

const (
	Invalid Ret = iota
	Success
	Fail
	// Running means the node suspended itself and resumes on a later tick.
	Running
	// Abort ends the current tick and drops every suspension of the tree.
	Abort
)

func (r Ret) String() string {
	switch r {
	case Success:
		return "SUCCESS"
	case Fail:
		return "FAIL"
	case Running:
		return "RUNNING"
	case Abort:
		return "ABORT"
	default:
		return "INVALID"
	}
}

// IsTerminal reports whether r ends the node's activation.
func (r Ret) IsTerminal() bool {
	return r == Success || r == Fail || r == Abort
}

func (r Ret) MarshalText() ([]byte, error) {
	if r == Invalid || r > Abort {
		return nil, fmt.Errorf("bt: cannot marshal ret %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Ret) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "SUCCESS":
		*r = Success
	case "FAIL", "FAILURE":
		*r = Fail
	case "RUNNING":
		*r = Running
	case "ABORT":
		*r = Abort
	default:
		return fmt.Errorf("bt: unknown ret %q", text)
	}
	return nil
}
