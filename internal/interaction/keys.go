package interaction

import "strings"

// Focus says where keyboard input is going.
type Focus int

const (
	FocusCanvas Focus = iota
	// FocusTextInput is any text field. It keeps every key, Escape
	// included, for its own editing.
	FocusTextInput
)

// KeyEvent is a key press. Key is the key name: a single character such as
// "z", or one of "escape", "delete", "backspace".
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
	Focus Focus
}

func (k KeyEvent) mod() bool { return k.Ctrl || k.Meta }

// HandleKey dispatches a shortcut. It returns whether the key was consumed.
func (c *Controller) HandleKey(k KeyEvent) bool {
	if k.Focus == FocusTextInput {
		return false
	}
	key := strings.ToLower(k.Key)

	switch key {
	case "escape", "esc":
		c.eng.ClearSelection()
		return true
	case "delete", "backspace":
		if len(c.eng.Selection()) == 0 {
			return false
		}
		c.DeleteSelected()
		return true
	}

	if !k.mod() {
		return false
	}
	switch key {
	case "z":
		if k.Shift {
			c.eng.Redo()
		} else {
			c.eng.Undo()
		}
	case "y":
		c.eng.Redo()
	case "d":
		c.DuplicateSelected()
	case "a":
		c.eng.SelectAll()
	case "c":
		c.Copy()
	case "x":
		c.Cut()
	case "v":
		c.Paste()
	default:
		return false
	}
	c.log.Debug().Str("key", key).Bool("shift", k.Shift).Msg("shortcut")
	return true
}
