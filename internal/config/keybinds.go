package config

// Keybinds holds the keys that map to engine actions. Values are plain
// strings matching the tcell.EventKey.Name() format (e.g. "Ctrl+C", "Enter",
// "Up"). Printable keys and Backspace are not configurable.
type Keybinds struct {
	Quit           string `toml:"quit"`
	Submit         string `toml:"submit"`
	Escape         string `toml:"escape"`
	SelectNext     string `toml:"select_next"`
	SelectPrevious string `toml:"select_previous"`
}
