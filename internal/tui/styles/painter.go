package styles

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/medic/internal/pager"
)

// Painter styles viewer frames with the active theme. Rows are cut to
// Width display columns so long lines never wrap and push the footer.
type Painter struct {
	Width int
}

var _ pager.Painter = Painter{}

func (p Painter) Header(s string) string { return " " + Header.Render(s) }
func (p Painter) Rule(s string) string   { return " " + Rule.Render(s) }

func (p Painter) Row(s string) string {
	if p.Width > 0 && ansi.StringWidth(s) > p.Width {
		return ansi.Truncate(s, p.Width, "")
	}
	return s
}

func (p Painter) Footer(s string, scrollable bool) string {
	if scrollable {
		return " " + HelpBar.Render(s)
	}
	return " " + HelpKey.Render(s)
}
