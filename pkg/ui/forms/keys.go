package forms

import (
	"github.com/charmbracelet/huh"

	"github.com/Nitika2334/Rule-Engine-App/pkg/keys"
)

// KeyBinds defines key bindings shared by the create, combine, and evaluate
// forms.
type KeyBinds struct {
	Submit    *keys.KeyBind `json:"submit,omitempty"`
	AddRow    *keys.KeyBind `json:"addRow,omitempty"`
	RemoveRow *keys.KeyBind `json:"removeRow,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Submit,
		keys.NewBind("submit",
			keys.New("ctrl+s", keys.WithAlias("⌃s")),
		))
	keys.SetDefaultBind(&kb.AddRow,
		keys.NewBind("add rule row",
			keys.New("ctrl+n", keys.WithAlias("⌃n")),
		))
	keys.SetDefaultBind(&kb.RemoveRow,
		keys.NewBind("remove rule row",
			keys.New("ctrl+d", keys.WithAlias("⌃d")),
		))
}

func (kb *KeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Submit,
		*kb.AddRow,
		*kb.RemoveRow,
	}
}

// huhKeyMap returns huh's defaults without its quit binding, which the
// top-level model owns.
func huhKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit.SetEnabled(false)

	return km
}
