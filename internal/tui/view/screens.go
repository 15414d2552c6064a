package view

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/medic/internal/tui/styles"
	"github.com/Iron-Ham/medic/internal/util"
)

// MenuItem is one selectable entry of the main menu.
type MenuItem struct {
	Label       string
	Description string
}

// MenuLegend is the footer shown under the menu.
const MenuLegend = "[UP/DOWN] Navigate   [ENTER] Select   [Q] Exit"

var bannerRule = "  " + strings.Repeat("=", 58)

// Banner returns the application banner.
func Banner(version string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.Banner.Render(bannerRule))
	b.WriteString("\n\n")
	b.WriteString("          " + styles.Text.Bold(true).Render("[+]  m e d i c"))
	if version != "" {
		b.WriteString("   " + styles.Info.Render("v"+version))
	}
	b.WriteString("\n\n")
	b.WriteString("          " + styles.Subtitle.Render("System Diagnostic & Health Monitor"))
	b.WriteString("\n\n")
	b.WriteString(styles.Banner.Render(bannerRule))
	b.WriteString("\n\n")
	return b.String()
}

// Menu renders the numbered menu with the selected item highlighted and
// its description below. Descriptions are cut to width columns.
func Menu(items []MenuItem, selected, width int) string {
	var b strings.Builder
	b.WriteString(Indent + styles.Section.Render("DIAGNOSTIC MODULES") + "\n")
	b.WriteString(Indent + styles.Rule.Render("-------------------") + "\n\n")

	for i, item := range items {
		line := fmt.Sprintf("[%d] %s", i+1, item.Label)
		if i == selected {
			b.WriteString("  " + styles.MenuSelected.Render(">> "+line) + "\n")
		} else {
			b.WriteString("    " + styles.MenuItem.Render(line) + "\n")
		}
	}

	if selected >= 0 && selected < len(items) {
		desc := items[selected].Description
		if width > len(Indent) {
			desc = util.TruncateANSI(desc, width-len(Indent))
		}
		b.WriteString("\n" + Indent + styles.Warn.UnsetBold().Render(desc) + "\n")
	}

	b.WriteString("\n  " + styles.Rule.Render(strings.Repeat("-", LineWidth)) + "\n")
	b.WriteString(Indent + styles.HelpBar.Render(MenuLegend) + "\n")
	return b.String()
}

// Processing renders the screen shown while a diagnostic runs.
func Processing(title, spinner string) string {
	var b strings.Builder
	Section(&b, title)
	b.WriteString(Indent + spinner + " " + styles.Text.Render("Processing, please wait...") + "\n")
	return b.String()
}

// EasterEgg renders the hidden screen with a countdown of seconds left.
func EasterEgg(secondsLeft int) string {
	art := []string{
		" ___________________________________",
		"|                                   |",
		"|     m  e  d  i  c     [+]         |",
		"|                                   |",
		"|   DIAGNOSIS: Your host is AWESOME |",
		"|___________________________________|",
	}

	var b strings.Builder
	b.WriteString("\n\n")
	for _, line := range art {
		b.WriteString("        " + styles.OK.Render(line) + "\n")
	}
	b.WriteString("\n")
	b.WriteString("          " + styles.Info.Render("Rx: Keep shipping daily.") + "\n")
	b.WriteString("          " + styles.Warn.Render("Side effects may include: fun.") + "\n\n")
	b.WriteString("               " + styles.Text.Render("- Dr. Medic, M.D. -") + "\n\n")
	b.WriteString("          " + styles.Section.Render("You found the secret! :)") + "\n\n")
	b.WriteString("         " + styles.Text.Render("Returning in "))
	for i := 3; i >= max(secondsLeft, 1); i-- {
		b.WriteString(styles.OK.Render(fmt.Sprintf("%d...", i)))
	}
	b.WriteString("\n")
	return b.String()
}

// Goodbye is printed after the interface exits.
func Goodbye() string {
	return styles.OK.Render("\n  medic shutting down. Stay healthy!\n") + "\n"
}
