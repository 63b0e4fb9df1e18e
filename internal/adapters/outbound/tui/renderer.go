// Package tui renders catalog, cart, order and account listings for the
// terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	infoStyle     = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	priceStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	featuredStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderProducts formats a catalog listing.
func RenderProducts(products []*domain.Product) string {
	if len(products) == 0 {
		return "  " + dimStyle.Render("No products found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s  %s\n", titleStyle.Render("Products"), dimStyle.Render(fmt.Sprintf("(%d)", len(products))))
	b.WriteString("  " + separatorLine + "\n\n")

	for _, p := range products {
		star := " "
		if p.Featured {
			star = featuredStyle.Render("★")
		}
		fmt.Fprintf(&b, "  %s %s %s  %s  %s\n",
			star,
			titleStyle.Render(padRight(truncate(p.Name, 28), 28)),
			priceStyle.Render(padLeft(money(p.Price), 10)),
			stockLabel(p.Stock),
			dimStyle.Render(p.Category),
		)
		fmt.Fprintf(&b, "    %s\n", faintStyle.Render(p.ID))
	}
	return b.String()
}

// RenderProduct formats one product with its specifications.
func RenderProduct(p *domain.Product) string {
	var b strings.Builder

	title := headerStyle.Render(p.Name)
	price := priceStyle.Render(money(p.Price))
	b.WriteString(boxStyle.Render(title + "\n" + dimStyle.Render(p.Category) + "\n\n" + price + "  " + stockLabel(p.Stock)))
	b.WriteString("\n\n")

	if p.Description != "" {
		b.WriteString("  " + p.Description + "\n\n")
	}

	keys := sortedKeys(p.Specifications)
	if len(keys) > 0 {
		b.WriteString("  " + titleStyle.Render("Specifications") + "\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "    %s %s\n", dimStyle.Render(padRight(domain.SpecLabel(k), 20)), p.Specifications[k])
		}
		b.WriteString("\n")
	}
	b.WriteString("  " + faintStyle.Render(p.ID) + "\n")
	return b.String()
}

// RenderCategories formats grouped category counts.
func RenderCategories(cats []domain.Category) string {
	if len(cats) == 0 {
		return "  " + dimStyle.Render("No categories.") + "\n"
	}
	most := cats[0].Count
	var b strings.Builder
	b.WriteString("\n")
	for _, c := range cats {
		fmt.Fprintf(&b, "  %s %s  %s\n",
			titleStyle.Render(padRight(c.Name, 20)),
			countBar(c.Count, most, 20),
			dimStyle.Render(fmt.Sprintf("%d", c.Count)),
		)
	}
	return b.String()
}

func stockLabel(stock int) string {
	switch {
	case stock <= 0:
		return failStyle.Render("out of stock")
	case stock < 5:
		return warnStyle.Render(fmt.Sprintf("only %d left", stock))
	default:
		return passStyle.Render(fmt.Sprintf("%d in stock", stock))
	}
}

func countBar(n, most, width int) string {
	filled := width
	if most > 0 {
		filled = max(0, min(n*width/most, width))
	}
	empty := width - filled
	filledStr := lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
