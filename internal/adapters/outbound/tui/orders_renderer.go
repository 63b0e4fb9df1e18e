package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var statusColors = map[domain.OrderStatus]lipgloss.Color{
	domain.StatusPending:   warning,
	domain.StatusConfirmed: info,
	domain.StatusShipped:   accent,
	domain.StatusDelivered: success,
	domain.StatusCancelled: danger,
}

// RenderOrders formats an order listing, newest first as given.
func RenderOrders(orders []*domain.OrderView) string {
	if len(orders) == 0 {
		return "  " + dimStyle.Render("No orders yet.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s  %s\n", titleStyle.Render("Orders"), dimStyle.Render(fmt.Sprintf("(%d)", len(orders))))
	b.WriteString("  " + separatorLine + "\n\n")

	for i, o := range orders {
		renderOrder(&b, o)
		if i < len(orders)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderOrder(b *strings.Builder, o *domain.OrderView) {
	fmt.Fprintf(b, "  %s  %s  %s  %s\n",
		titleStyle.Render(o.ID),
		dimStyle.Render(o.OrderDate.Format("2006-01-02")),
		statusTag(o.Status),
		priceStyle.Render(money(o.TotalAmount)),
	)
	if o.User != nil {
		fmt.Fprintf(b, "    %s %s\n", dimStyle.Render(o.User.Name), faintStyle.Render("<"+o.User.Email+">"))
	}
	for _, line := range o.Items {
		name := faintStyle.Render(line.ProductID + " (removed)")
		if line.Product != nil {
			name = line.Product.Name
		}
		fmt.Fprintf(b, "    %s %s %s\n",
			dimStyle.Render(fmt.Sprintf("%3d ×", line.Quantity)),
			padRight(name, 32),
			dimStyle.Render(money(line.Price)),
		)
	}
}

func statusTag(s domain.OrderStatus) string {
	c, ok := statusColors[s]
	if !ok {
		c = fg
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(string(s))
}

// RenderCart formats the local cart and its snapshot total.
func RenderCart(c domain.Cart) string {
	if len(c) == 0 {
		return "  " + dimStyle.Render("Your cart is empty.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Cart") + "\n")
	b.WriteString("  " + separatorLine + "\n\n")
	for _, it := range c {
		fmt.Fprintf(&b, "  %s %s %s\n",
			dimStyle.Render(fmt.Sprintf("%3d ×", it.Quantity)),
			padRight(truncate(it.Product.Name, 32), 32),
			priceStyle.Render(padLeft(money(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))), 10)),
		)
		fmt.Fprintf(&b, "        %s\n", faintStyle.Render(it.ProductID))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n", titleStyle.Render(padRight("Total", 37)), priceStyle.Render(padLeft(money(c.Total()), 10)))
	return b.String()
}

// RenderUsers formats the admin account listing.
func RenderUsers(stats []domain.UserStats) string {
	if len(stats) == 0 {
		return "  " + dimStyle.Render("No users.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s  %s\n", titleStyle.Render("Users"), dimStyle.Render(fmt.Sprintf("(%d)", len(stats))))
	b.WriteString("  " + separatorLine + "\n\n")
	for _, s := range stats {
		active := passStyle.Render("●")
		if !s.IsActive {
			active = failStyle.Render("○")
		}
		fmt.Fprintf(&b, "  %s %s %s %s  %s\n",
			active,
			titleStyle.Render(padRight(truncate(s.Name, 20), 20)),
			padRight(s.Email, 28),
			infoStyle.Render(padRight(s.Role.String(), 10)),
			dimStyle.Render(fmt.Sprintf("%d orders · %s", s.OrderCount, money(s.TotalSpent))),
		)
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
