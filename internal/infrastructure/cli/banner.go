package cli

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/testlaunch/pkg/application"
)

func printBanner(w io.Writer, theme application.Theme) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", theme.Highlight.Render("Thanks for using testlaunch!"), theme.Muted.Render(Version))
	fmt.Fprintln(w, theme.Muted.Render("Hide this message with --disable-banner."))
	fmt.Fprintln(w)
}
