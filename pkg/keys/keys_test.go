package keys_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitika2334/Rule-Engine-App/pkg/keys"
)

func TestKey_String(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		key  keys.Key
		want string
	}{
		"code":   {key: keys.New("enter"), want: "enter"},
		"alias":  {key: keys.New("up", keys.WithAlias("↑")), want: "↑"},
		"hidden": {key: keys.New("ctrl+c", keys.Hidden()), want: "ctrl+c"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.key.String())
		})
	}
}

func TestKeyBind(t *testing.T) {
	t.Parallel()

	kb := keys.NewBind("move up",
		keys.New("up", keys.WithAlias("↑")),
		keys.New("k"),
		keys.New("ctrl+p", keys.Hidden()),
	)

	assert.Equal(t, "↑/k", kb.String())
	assert.True(t, kb.Match("up"))
	assert.True(t, kb.Match("ctrl+p"))
	assert.False(t, kb.Match("↑"))

	kb.AddKey(keys.New("k"))
	assert.Len(t, kb.Keys, 3)

	kb.AddKey(keys.New("w"))
	assert.Len(t, kb.Keys, 4)

	var nilBind *keys.KeyBind
	assert.False(t, nilBind.Match("up"))
	nilBind.AddKey(keys.New("x"))
}

func TestKeyBind_BubbleKey(t *testing.T) {
	t.Parallel()

	kb := keys.NewBind("submit",
		keys.New("enter", keys.WithAlias("↵")),
		keys.New("ctrl+s", keys.Hidden()),
	)

	bk := kb.BubbleKey()

	assert.Equal(t, []string{"enter", "ctrl+s"}, bk.Keys())
	assert.Equal(t, "↵", bk.Help().Key)
	assert.Equal(t, "submit", bk.Help().Desc)
}

func TestSetDefaultBind(t *testing.T) {
	t.Parallel()

	def := keys.NewBind("toggle rule", keys.New("enter"))

	t.Run("nil", func(t *testing.T) {
		t.Parallel()

		var kb *keys.KeyBind
		keys.SetDefaultBind(&kb, def)

		require.NotNil(t, kb)
		assert.Equal(t, def, *kb)
	})

	t.Run("keys only", func(t *testing.T) {
		t.Parallel()

		kb := &keys.KeyBind{Keys: []keys.Key{keys.New("space")}}
		keys.SetDefaultBind(&kb, def)

		assert.Equal(t, "toggle rule", kb.Description)
		assert.Equal(t, "space", kb.Keys[0].Code)
	})

	t.Run("description only", func(t *testing.T) {
		t.Parallel()

		kb := &keys.KeyBind{Description: "expand"}
		keys.SetDefaultBind(&kb, def)

		assert.Equal(t, "expand", kb.Description)
		assert.Equal(t, def.Keys, kb.Keys)
	})
}

func TestValidateBinds(t *testing.T) {
	t.Parallel()

	a := []keys.KeyBind{
		keys.NewBind("quit", keys.New("q")),
		keys.NewBind("menu", keys.New("m")),
	}
	b := []keys.KeyBind{
		keys.NewBind("copy", keys.New("c")),
	}
	clash := []keys.KeyBind{
		keys.NewBind("close", keys.New("q")),
	}

	require.NoError(t, keys.ValidateBinds(a, b))

	err := keys.ValidateBinds(a, clash)
	require.ErrorIs(t, err, keys.ErrDuplicateBinding)
	assert.Contains(t, err.Error(), `"q"`)
}

func TestKeyBindRenderer_Render(t *testing.T) {
	t.Parallel()

	r := &keys.KeyBindRenderer{}
	assert.Empty(t, r.Render(80))

	r.AddColumn(
		keys.NewBind("move up", keys.New("up", keys.WithAlias("↑"))),
		keys.NewBind("move down", keys.New("down", keys.WithAlias("↓"))),
	)
	r.AddColumn(
		keys.NewBind("quit", keys.New("q")),
	)
	r.AddColumn()

	out := r.Render(80)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "↑  move up")
	assert.Contains(t, lines[0], "q  quit")
	assert.Contains(t, lines[1], "↓  move down")
}
