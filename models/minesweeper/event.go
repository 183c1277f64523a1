package minesweeper

import "fmt"

// Event is what a single board operation produced. It is never stored.
type Event uint8

const (
	EventContinue Event = iota
	EventInvalidOperation
	EventAllMinesCleared
	EventSteppedOnMine
)

var eventNames = map[Event]string{
	EventContinue:         "continue",
	EventInvalidOperation: "invalidOperation",
	EventAllMinesCleared:  "allMinesCleared",
	EventSteppedOnMine:    "steppedOnMine",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", uint8(e))
}

func (e Event) MarshalText() ([]byte, error) {
	name, ok := eventNames[e]
	if !ok {
		return nil, fmt.Errorf("unknown event: %d", uint8(e))
	}
	return []byte(name), nil
}

func (e *Event) UnmarshalText(text []byte) error {
	for ev, name := range eventNames {
		if name == string(text) {
			*e = ev
			return nil
		}
	}
	return fmt.Errorf("unknown event: %q", text)
}

type State uint8

const (
	StateInProgress State = iota
	StateVictory
	StateDefeat
)

var stateNames = map[State]string{
	StateInProgress: "inProgress",
	StateVictory:    "victory",
	StateDefeat:     "defeat",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

func (s State) IsTerminal() bool {
	return s != StateInProgress
}

func (s State) MarshalText() ([]byte, error) {
	name, ok := stateNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown state: %d", uint8(s))
	}
	return []byte(name), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for st, name := range stateNames {
		if name == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state: %q", text)
}
