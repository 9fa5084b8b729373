package rulelist

import (
	"github.com/Nitika2334/Rule-Engine-App/pkg/keys"
)

// KeyBinds defines key bindings for the rule list.
type KeyBinds struct {
	Toggle *keys.KeyBind `json:"toggle,omitempty"`
	Close  *keys.KeyBind `json:"close,omitempty"`
	Filter *keys.KeyBind `json:"filter,omitempty"`
	Copy   *keys.KeyBind `json:"copy,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Toggle,
		keys.NewBind("expand/collapse",
			keys.New("enter", keys.WithAlias("↵")),
			keys.New(" ", keys.WithAlias("space")),
		))
	keys.SetDefaultBind(&kb.Close,
		keys.NewBind("collapse",
			keys.New("esc"),
			keys.New("x"),
		))
	keys.SetDefaultBind(&kb.Filter,
		keys.NewBind("filter",
			keys.New("/"),
		))
	keys.SetDefaultBind(&kb.Copy,
		keys.NewBind("copy expression",
			keys.New("c"),
		))
}

func (kb *KeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Toggle,
		*kb.Close,
		*kb.Filter,
		*kb.Copy,
	}
}
