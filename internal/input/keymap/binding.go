package keymap

import (
	"github.com/dshills/adxstudio/internal/find"
	"github.com/dshills/adxstudio/internal/input/key"
)

// Binding maps one key specification to a command.
type Binding struct {
	// Keys is a key specification such as "Ctrl+F" or "<S-F3>".
	Keys string

	// Command is the find command to run.
	Command find.Command

	// Description is shown in help output.
	Description string
}

// parsedBinding is a binding with its key specification parsed.
type parsedBinding struct {
	Binding
	event key.Event
}
