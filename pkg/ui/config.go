package ui

import (
	"errors"

	"github.com/Nitika2334/Rule-Engine-App/pkg/keys"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/common"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/forms"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/rulelist"
)

// Config contains TUI-specific configuration.
type Config struct {
	// Compact removes the spacing between the page and the rule list.
	Compact *bool `json:"compact,omitempty" jsonschema:"title=Compact" yaml:"compact,omitempty"`
	// KeyBinds overrides the default key bindings.
	KeyBinds *KeyBinds `json:"keybinds,omitempty" jsonschema:"title=Key Bindings" yaml:"keybinds,omitempty"`
	// Theme is a chroma style name, or one of auto, light, dark.
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme" yaml:"theme,omitempty"`
}

func (c *Config) EnsureDefaults() {
	if c.Theme == "" {
		c.Theme = "auto"
	}

	if c.Compact == nil {
		compact := false
		c.Compact = &compact
	}

	if c.KeyBinds == nil {
		c.KeyBinds = &KeyBinds{}
	}

	c.KeyBinds.EnsureDefaults()
}

type KeyBinds struct {
	Common   *common.KeyBinds   `json:"common,omitempty"   yaml:"common,omitempty"`
	RuleList *rulelist.KeyBinds `json:"rulelist,omitempty" yaml:"rulelist,omitempty"`
	Forms    *forms.KeyBinds    `json:"forms,omitempty"    yaml:"forms,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	if kb.Common == nil {
		kb.Common = &common.KeyBinds{}
	}
	if kb.RuleList == nil {
		kb.RuleList = &rulelist.KeyBinds{}
	}
	if kb.Forms == nil {
		kb.Forms = &forms.KeyBinds{}
	}

	kb.Common.EnsureDefaults()
	kb.RuleList.EnsureDefaults()
	kb.Forms.EnsureDefaults()
}

// Validate reports bindings that collide within a focus area. The rule list
// and the forms never receive keys at the same time, so they are checked
// separately against the common bindings.
func (kb *KeyBinds) Validate() error {
	return errors.Join(
		keys.ValidateBinds(kb.Common.GetKeyBinds(), kb.RuleList.GetKeyBinds()),
		keys.ValidateBinds(kb.Common.GetKeyBinds(), kb.Forms.GetKeyBinds()),
	)
}
