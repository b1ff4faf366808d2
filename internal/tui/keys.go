package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	QuitOther  key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	NextWord   key.Binding
	Backspace  key.Binding
	Reset      key.Binding
	TestTab    key.Binding
	StatsTab   key.Binding
	OptionsTab key.Binding
	TimeMode   key.Binding
	WordsMode  key.Binding
	CustomMode key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		QuitOther:  key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		NextWord:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "next word")),
		Backspace:  key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete")),
		Reset:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "restart")),
		TestTab:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "test")),
		StatsTab:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "stats")),
		OptionsTab: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "options")),
		TimeMode:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "30 seconds")),
		WordsMode:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "30 words")),
		CustomMode: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "custom"), key.WithDisabled()),
	}
}

// helpFor lists the bindings shown under the given tab.
func (k keyMap) helpFor(t tab) []key.Binding {
	switch t {
	case tabTest:
		return []key.Binding{k.NextWord, k.Backspace, k.Reset, k.NextTab, k.Quit}
	case tabOptions:
		return []key.Binding{k.TimeMode, k.WordsMode, k.CustomMode, k.TestTab, k.StatsTab, k.QuitOther}
	default:
		return []key.Binding{k.NextTab, k.PrevTab, k.TestTab, k.OptionsTab, k.QuitOther}
	}
}
