package npc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

var ErrBadPolarity = errors.New("npc: polarity must be chase or escape")

// Policy decides how an agent reacts to seeing the player.
type Policy interface {
	OnSight(kind Kind, night bool) State
}

// TablePolicy is a fixed kind x phase reaction table.
type TablePolicy struct {
	table [kindCount][2]State
}

// DefaultPolicy hunts the player by day and flees at night, for every kind.
func DefaultPolicy() *TablePolicy {
	p := &TablePolicy{}
	for _, k := range Kinds() {
		p.table[k][0] = StateChase
		p.table[k][1] = StateEscape
	}
	return p
}

func (p *TablePolicy) Set(kind Kind, night bool, s State) error {
	if kind < 0 || kind >= kindCount {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	if s != StateChase && s != StateEscape {
		return fmt.Errorf("%w: got %s", ErrBadPolarity, s)
	}
	p.table[kind][phase(night)] = s
	return nil
}

func (p *TablePolicy) OnSight(kind Kind, night bool) State {
	if p == nil || kind < 0 || kind >= kindCount {
		return StateChase
	}
	return p.table[kind][phase(night)]
}

func phase(night bool) int {
	if night {
		return 1
	}
	return 0
}

const polarityDispatchScript = `
__reaction := react(__kind, __night)
`

// CompilePolicyScript evaluates a tengo script defining
//
//	react := func(kind, night) { ... }
//
// for every kind and phase, and freezes the answers into a table. kind is
// "civilian" or "hunter"; the result must be "chase" or "escape".
func CompilePolicyScript(src []byte) (*TablePolicy, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + polarityDispatchScript))
	_ = script.Add("__kind", "")
	_ = script.Add("__night", false)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("npc: compile polarity script: %w", err)
	}

	p := DefaultPolicy()
	for _, k := range Kinds() {
		for _, night := range []bool{false, true} {
			if err := compiled.Set("__kind", k.String()); err != nil {
				return nil, err
			}
			if err := compiled.Set("__night", night); err != nil {
				return nil, err
			}
			if err := compiled.Run(); err != nil {
				return nil, fmt.Errorf("npc: run polarity script for %s night=%t: %w", k, night, err)
			}
			raw := strings.TrimSpace(compiled.Get("__reaction").String())
			st, ok := ParseState(raw)
			if !ok {
				return nil, fmt.Errorf("%w: %s night=%t returned %q", ErrBadPolarity, k, night, raw)
			}
			if err := p.Set(k, night, st); err != nil {
				return nil, fmt.Errorf("%s night=%t: %w", k, night, err)
			}
		}
	}
	return p, nil
}
