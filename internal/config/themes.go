package config

// BuiltinTheme returns a fully populated Theme for the given preset name.
// Unknown names fall back to "default".
func BuiltinTheme(name string) Theme {
	switch name {
	case "monokai":
		return monokaiTheme()
	default:
		return defaultTheme()
	}
}

func defaultTheme() Theme {
	return Theme{
		Preset:    "default",
		Border:    makeStyle("gray", "", ""),
		Title:     makeStyle("white", "", "b"),
		Selected:  makeStyle("white", "", "r"),
		Author:    makeStyle("green", "", "b"),
		Timestamp: makeStyle("gray", "", ""),
		Status:    makeStyle("yellow", "", ""),
		Input:     makeStyle("white", "", ""),
		Markdown: MarkdownTheme{
			UserMention:    makeStyle("yellow", "", "b"),
			ChannelMention: makeStyle("cyan", "", "b"),
			SpecialMention: makeStyle("yellow", "", "bu"),
			CustomEmoji:    makeStyle("purple", "", ""),
			InlineCode:     makeStyle("gray", "", ""),
			CodeFence:      makeStyle("gray", "", ""),
			BlockquoteMark: makeStyle("gray", "", ""),
		},
	}
}

func monokaiTheme() Theme {
	return Theme{
		Preset:    "monokai",
		Border:    makeStyle("#75715e", "", ""),
		Title:     makeStyle("#f8f8f2", "", "b"),
		Selected:  makeStyle("#272822", "#a6e22e", ""),
		Author:    makeStyle("#a6e22e", "", "b"),
		Timestamp: makeStyle("#75715e", "", ""),
		Status:    makeStyle("#e6db74", "", ""),
		Input:     makeStyle("#f8f8f2", "", ""),
		Markdown: MarkdownTheme{
			UserMention:    makeStyle("#fd971f", "", "b"),
			ChannelMention: makeStyle("#66d9ef", "", "b"),
			SpecialMention: makeStyle("#f92672", "", "bu"),
			CustomEmoji:    makeStyle("#ae81ff", "", ""),
			InlineCode:     makeStyle("#e6db74", "", ""),
			CodeFence:      makeStyle("#75715e", "", ""),
			BlockquoteMark: makeStyle("#75715e", "", ""),
		},
	}
}
