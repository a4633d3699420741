package physics

import (
	"fmt"
	"strings"
)

// InteractionKind classifies how a body takes part in collisions.
type InteractionKind uint8

const (
	// Kinetic bodies scan the world every tick and are moved by responses.
	Kinetic InteractionKind = iota
	// Passive bodies are moved by responses but only scan while moving.
	Passive
	// Static bodies are never moved by responses but still push back.
	Static
	// Ghost bodies scan every tick and report contacts with no physical effect.
	Ghost
)

// Initiates reports whether the kind scans the world every tick regardless
// of velocity.
func (k InteractionKind) Initiates() bool { return k == Kinetic || k == Ghost }

// HasResponse reports whether positional and velocity corrections apply.
func (k InteractionKind) HasResponse() bool { return k == Kinetic || k == Passive }

func (k InteractionKind) String() string {
	switch k {
	case Kinetic:
		return "kinetic"
	case Passive:
		return "passive"
	case Static:
		return "static"
	case Ghost:
		return "ghost"
	default:
		return fmt.Sprintf("InteractionKind(%d)", uint8(k))
	}
}

// ParseInteractionKind parses a case-insensitive kind name.
func ParseInteractionKind(s string) (InteractionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kinetic":
		return Kinetic, nil
	case "passive":
		return Passive, nil
	case "static":
		return Static, nil
	case "ghost":
		return Ghost, nil
	default:
		return 0, fmt.Errorf("unknown interaction kind %q", s)
	}
}
