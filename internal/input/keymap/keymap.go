package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/adxstudio/internal/find"
	"github.com/dshills/adxstudio/internal/input/key"
)

// Errors returned when binding keys.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrConflict       = errors.New("key already bound")
)

// Keymap holds the global find bindings. At most one key is bound to each
// command and each key runs at most one command.
//
// Keymap is safe for concurrent use.
type Keymap struct {
	mu       sync.RWMutex
	name     string
	bindings map[find.Command]parsedBinding
}

// New creates an empty keymap.
func New(name string) *Keymap {
	return &Keymap{
		name:     name,
		bindings: make(map[find.Command]parsedBinding),
	}
}

// Default returns a keymap with the default find bindings.
func Default() *Keymap {
	km := New("default")
	for _, b := range DefaultBindings() {
		if err := km.Bind(b.Command, b.Keys); err != nil {
			panic("keymap: default binding " + b.Keys + ": " + err.Error())
		}
	}
	return km
}

// DefaultBindings returns the built-in bindings.
func DefaultBindings() []Binding {
	return []Binding{
		{Keys: "Ctrl+F", Command: find.CommandFind, Description: "Find"},
		{Keys: "Ctrl+H", Command: find.CommandReplace, Description: "Find and replace"},
		{Keys: "F3", Command: find.CommandFindNext, Description: "Find next match"},
		{Keys: "Shift+F3", Command: find.CommandFindPrev, Description: "Find previous match"},
	}
}

// Name returns the keymap name.
func (k *Keymap) Name() string {
	return k.name
}

// Bind binds spec to cmd, replacing the key previously bound to cmd. An
// empty spec unbinds cmd.
func (k *Keymap) Bind(cmd find.Command, spec string) error {
	if !knownCommand(cmd) {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if spec == "" {
		delete(k.bindings, cmd)
		return nil
	}

	ev, err := key.Parse(spec)
	if err != nil {
		return fmt.Errorf("binding %s: %w", cmd, err)
	}
	for other, b := range k.bindings {
		if other != cmd && b.event.Equals(ev) {
			return fmt.Errorf("%w: %s runs %s", ErrConflict, spec, other)
		}
	}

	k.bindings[cmd] = parsedBinding{
		Binding: Binding{Keys: spec, Command: cmd, Description: describe(cmd)},
		event:   ev,
	}
	return nil
}

// Lookup returns the command bound to ev.
func (k *Keymap) Lookup(ev key.Event) (find.Command, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	for cmd, b := range k.bindings {
		if b.event.Equals(ev) {
			return cmd, true
		}
	}
	return "", false
}

// KeyFor returns the key specification bound to cmd.
func (k *Keymap) KeyFor(cmd find.Command) (string, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	b, ok := k.bindings[cmd]
	return b.Keys, ok
}

// Bindings returns all bindings in command order.
func (k *Keymap) Bindings() []Binding {
	k.mu.RLock()
	defer k.mu.RUnlock()

	order := make(map[find.Command]int)
	for i, cmd := range find.Commands() {
		order[cmd] = i
	}

	out := make([]Binding, 0, len(k.bindings))
	for _, b := range k.bindings {
		out = append(out, b.Binding)
	}
	sort.Slice(out, func(i, j int) bool {
		return order[out[i].Command] < order[out[j].Command]
	})
	return out
}

func describe(cmd find.Command) string {
	for _, b := range DefaultBindings() {
		if b.Command == cmd {
			return b.Description
		}
	}
	return ""
}

func knownCommand(cmd find.Command) bool {
	for _, c := range find.Commands() {
		if c == cmd {
			return true
		}
	}
	return false
}
