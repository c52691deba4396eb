package keys

import "github.com/charmbracelet/bubbles/key"

// ControllerKeys are the delay controller bindings
type ControllerKeys struct {
	TerminalKeys
	Increase        key.Binding
	Decrease        key.Binding
	IncreaseFine    key.Binding
	DecreaseFine    key.Binding
	IncreaseCoarse  key.Binding
	DecreaseCoarse  key.Binding
	SendNow         key.Binding
	Up              key.Binding
	Down            key.Binding
	Connect         key.Binding
	Refresh         key.Binding
	Enter           key.Binding
	ToggleEntryMode key.Binding
}

func NewControllerKeys() ControllerKeys {
	return ControllerKeys{
		TerminalKeys: NewTerminalKeys(),
		Increase: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "+1 ms"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "-1 ms"),
		),
		IncreaseFine: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "+0.1 ms"),
		),
		DecreaseFine: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "-0.1 ms"),
		),
		IncreaseCoarse: key.NewBinding(
			key.WithKeys("shift+right", "L", "pgup"),
			key.WithHelp("L/pgup", "+10 ms"),
		),
		DecreaseCoarse: key.NewBinding(
			key.WithKeys("shift+left", "H", "pgdown"),
			key.WithHelp("H/pgdn", "-10 ms"),
		),
		SendNow: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "send delay now"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "port up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "port down"),
		),
		Connect: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c/enter", "connect/disconnect"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh ports"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		ToggleEntryMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "delay/command entry"),
		),
	}
}

func (k ControllerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Decrease, k.Increase, k.Connect, k.InsertMode, k.Help, k.Quit}
}

func (k ControllerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Decrease, k.Increase, k.DecreaseFine, k.IncreaseFine, k.DecreaseCoarse, k.IncreaseCoarse, k.SendNow},
		{k.Up, k.Down, k.Connect, k.Refresh},
		{k.InsertMode, k.Escape, k.ToggleEntryMode, k.Enter},
		{k.Clear, k.ToggleTimestamps, k.Help, k.Quit},
	}
}
