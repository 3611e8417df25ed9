package usage

// Palette is the set of theme colors the dashboard renders with.
// Values are "#RRGGBB" hex strings.
type Palette struct {
	Primary       string
	PrimaryDark   string
	PrimaryLight  string
	Secondary     string
	SecondaryDark string
	Accent1       string
	Accent2       string
	Background    string
	Card          string
	TextPrimary   string
	TextSecondary string
	TextOnPurple  string
	Success       string
	Warning       string
	Error         string
	Info          string
}

// DefaultPalette returns the app's standard theme.
func DefaultPalette() Palette {
	return Palette{
		Primary:       "#5B4BA0",
		PrimaryDark:   "#432F7C",
		PrimaryLight:  "#7B6BB8",
		Secondary:     "#A8E6CF",
		SecondaryDark: "#88C6AF",
		Accent1:       "#FFD166",
		Accent2:       "#FF9AA2",
		Background:    "#F8F9FA",
		Card:          "#FFFFFF",
		TextPrimary:   "#1A1A1A",
		TextSecondary: "#5A5A5A",
		TextOnPurple:  "#FFFFFF",
		Success:       "#4CAF50",
		Warning:       "#FFA726",
		Error:         "#EF5350",
		Info:          "#42A5F5",
	}
}

// Colors returns every palette entry keyed by its theme name.
func (p Palette) Colors() map[string]string {
	return map[string]string{
		"primary":       p.Primary,
		"primaryDark":   p.PrimaryDark,
		"primaryLight":  p.PrimaryLight,
		"secondary":     p.Secondary,
		"secondaryDark": p.SecondaryDark,
		"accent1":       p.Accent1,
		"accent2":       p.Accent2,
		"background":    p.Background,
		"card":          p.Card,
		"textPrimary":   p.TextPrimary,
		"textSecondary": p.TextSecondary,
		"textOnPurple":  p.TextOnPurple,
		"success":       p.Success,
		"warning":       p.Warning,
		"error":         p.Error,
		"info":          p.Info,
	}
}
