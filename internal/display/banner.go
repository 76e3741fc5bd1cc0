package display

import (
	"fmt"
	"os"

	"github.com/shiranzby/vidtotal/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, `       _     _ _        _        _
__   _(_) __| | |_ ___ | |_ __ _| |
\ \ / / |/ _`+"`"+` | __/ _ \| __/ _`+"`"+` | |
 \ V /| | (_| | || (_) | || (_| | |
  \_/ |_|\__,_|\__\___/ \__\__,_|_|
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
