// Package colors provides the color styles used by the ltbox output.
//
// Colors are disabled automatically when stdout is not a terminal; Init
// overrides that from the --color/--no-color flags.
package colors

import "github.com/fatih/color"

// Init overrides the auto-detected color setting. nil keeps the detected value.
func Init(forceColor *bool) {
	if forceColor != nil {
		color.NoColor = !*forceColor
	}
}

// FromFlags applies the --color/--no-color flags; --no-color wins.
func FromFlags(force, disable bool) {
	switch {
	case disable:
		color.NoColor = true
	case force:
		color.NoColor = false
	}
}

// Enabled returns true if colors are currently enabled.
func Enabled() bool {
	return !color.NoColor
}

func Bold() *color.Color  { return color.New(color.Bold) }
func Faint() *color.Color { return color.New(color.Faint) }

func BoldHiRed() *color.Color    { return color.New(color.Bold, color.FgHiRed) }
func BoldHiGreen() *color.Color  { return color.New(color.Bold, color.FgHiGreen) }
func BoldHiYellow() *color.Color { return color.New(color.Bold, color.FgHiYellow) }
func BoldHiBlue() *color.Color   { return color.New(color.Bold, color.FgHiBlue) }

// Key renders a field name in key/value listings.
func Key(s string) string { return BoldHiBlue().Sprint(s) }

// Success, Warning and Failure render outcome banners.
func Success(s string) string { return BoldHiGreen().Sprint(s) }
func Warning(s string) string { return BoldHiYellow().Sprint(s) }
func Failure(s string) string { return BoldHiRed().Sprint(s) }
