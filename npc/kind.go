package npc

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownKind = errors.New("npc: unknown kind")

// Kind selects an agent's constants, attack style and polarity row.
type Kind int

const (
	KindCivilian Kind = iota
	KindHunter

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindCivilian:
		return "civilian"
	case KindHunter:
		return "hunter"
	default:
		return "unknown"
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "civilian":
		return KindCivilian, nil
	case "hunter":
		return KindHunter, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Kinds lists every kind in a fixed order.
func Kinds() []Kind {
	return []Kind{KindCivilian, KindHunter}
}

// State is a node of the agent state machine.
type State int

const (
	StateChill State = iota
	StateLook
	StateChase
	StateEscape
	StateAttack
	StateDead
)

func (s State) String() string {
	switch s {
	case StateChill:
		return "chill"
	case StateLook:
		return "look"
	case StateChase:
		return "chase"
	case StateEscape:
		return "escape"
	case StateAttack:
		return "attack"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

func ParseState(s string) (State, bool) {
	for st := StateChill; st <= StateDead; st++ {
		if st.String() == strings.ToLower(strings.TrimSpace(s)) {
			return st, true
		}
	}
	return 0, false
}
