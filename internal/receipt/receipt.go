// Package receipt renders a committed order as a fixed-width thermal ticket.
package receipt

import (
	"errors"
	"fmt"
	"strings"

	"tillpos/internal/till"
)

// Kind selects the ticket copy.
type Kind string

const (
	Customer Kind = "Customer"
	Kitchen  Kind = "Kitchen"
)

var (
	// ErrVoidedOrder is returned for VOIDED orders: no tickets exist for them.
	ErrVoidedOrder = errors.New("order is voided; no tickets can be printed")

	// ErrKitchenDone is returned for a Kitchen copy of a DONE order.
	ErrKitchenDone = errors.New("order is done; kitchen ticket not available")

	// ErrBadWidth is returned for unsupported paper widths.
	ErrBadWidth = errors.New("unsupported paper width")
)

// columns maps paper width in mm to printable character columns.
func columns(widthMM int) (int, error) {
	switch widthMM {
	case 58:
		return 32, nil
	case 80:
		return 48, nil
	default:
		return 0, ErrBadWidth
	}
}

func wrap(s string, width int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var lines []string
	for len(s) > width {
		cut := strings.LastIndex(s[:width+1], " ")
		if cut <= 0 {
			cut = width
		}
		lines = append(lines, strings.TrimSpace(s[:cut]))
		s = strings.TrimSpace(s[cut:])
	}
	if s != "" {
		lines = append(lines, s)
	}
	return lines
}

func priced(name, amount string, width int) string {
	pad := width - len(name) - len(amount)
	if pad < 1 {
		name = name[:width-len(amount)-1]
		pad = 1
	}
	return name + strings.Repeat(" ", pad) + amount
}

// Render produces the ticket text. Voided orders are refused outright, and
// kitchen copies are refused once an order is done.
func Render(o till.Order, widthMM int, kind Kind, shopName string) (string, error) {
	if o.State == till.OrderVoided {
		return "", ErrVoidedOrder
	}
	if kind == Kitchen && o.State == till.OrderDone {
		return "", ErrKitchenDone
	}
	width, err := columns(widthMM)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	rule := strings.Repeat("-", width)

	line(shopName)
	line(fmt.Sprintf("%s Copy", kind))
	line(fmt.Sprintf("Order #%d", o.OrderNo))
	line(o.Date.Format("2006-01-02 15:04:05"))
	line("Worker: " + o.Worker)
	line(fmt.Sprintf("Payment: %s | Type: %s", o.Payment, o.OrderType))
	if o.OrderType == till.DeliveryOrderType {
		line("Delivery Fee: " + o.DeliveryFee.StringFixed(2))
	}
	if o.Note != "" {
		line("NOTE:")
		for _, l := range wrap(o.Note, width) {
			line(l)
		}
	}
	line(rule)
	for _, ci := range o.Cart {
		nameLines := wrap(ci.Name, width-10)
		for i, l := range nameLines {
			if i == 0 {
				line(priced(l, ci.Price.StringFixed(2), width))
			} else {
				line(l)
			}
		}
		for _, ex := range ci.Extras {
			exLines := wrap("+ "+ex.Name, width-10)
			for i, l := range exLines {
				if i == 0 {
					line(priced("  "+l, ex.Price.StringFixed(2), width))
				} else {
					line("  " + l)
				}
			}
		}
	}
	line(rule)
	line(priced("TOTAL", o.Total.StringFixed(2), width))
	if o.State == till.OrderDone {
		line("DONE")
	} else {
		line("Thank you!")
	}
	return b.String(), nil
}
