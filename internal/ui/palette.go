package ui

var CLI_PALETTE = struct {
	// Primary accent colors
	Accent       string // #3DB8FF - Primary brand color
	AccentBright string // #6CC9FF - Highlighted/active state
	AccentDim    string // #2A86C4 - Muted accent

	// Semantic colors
	Info    string // #5BA7FF - Informational messages
	Success string // #2FBF71 - Success/completion
	Warn    string // #FFB020 - Warnings
	Error   string // #E23D2D - Errors

	// Neutral
	Muted string // #7F8B94 - Secondary text, hints, metadata
}{
	Accent:       "#3DB8FF",
	AccentBright: "#6CC9FF",
	AccentDim:    "#2A86C4",
	Info:         "#5BA7FF",
	Success:      "#2FBF71",
	Warn:         "#FFB020",
	Error:        "#E23D2D",
	Muted:        "#7F8B94",
}
