package cmd

import (
	"fmt"

	"github.com/fatih/color"
)

// Terminal colors
var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

// banner prints the command header
func banner(subtitle string) {
	fmt.Printf("%s %s\n\n", brand.Sprint("nodecanvas"), subtle.Sprint(subtitle))
}

// field prints an aligned key/value line
func field(key string, value any) {
	fmt.Printf("  %s  %v\n", brand.Sprintf("%-12s", key), value)
}
