package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/bhojanbox/internal/client/models"
	"github.com/dmitrijs2005/bhojanbox/internal/pricing"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderMenu(w io.Writer, items []models.MenuItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tRATING\tTAGS")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\n",
			it.ID, it.Name, it.Category, money(it.Price), it.Rating, strings.Join(it.DietaryTags(), ","))
	}
	_ = tw.Flush()
}

func renderMenuItem(w io.Writer, it models.MenuItem) {
	fmt.Fprintf(w, "%s (%s)\n", it.Name, it.ID)
	fmt.Fprintf(w, "  %s\n", it.Description)
	fmt.Fprintf(w, "  Category: %s  Price: %s  Rating: %.1f\n", it.Category, money(it.Price), it.Rating)
	if tags := it.DietaryTags(); len(tags) > 0 {
		fmt.Fprintf(w, "  Tags: %s\n", strings.Join(tags, ", "))
	}
	if it.ImageURL != "" {
		fmt.Fprintf(w, "  Image: %s\n", it.ImageURL)
	}
}

func renderCategories(w io.Writer, cats []models.Category) {
	for _, c := range cats {
		if c.Description != "" {
			fmt.Fprintf(w, "- %s: %s\n", c.Name, c.Description)
			continue
		}
		fmt.Fprintf(w, "- %s\n", c.Name)
	}
}

// renderCart prints the lines followed by the checkout summary.
func renderCart(w io.Writer, st models.CartState) {
	if st.LastError != "" {
		fmt.Fprintf(w, "(last error: %s)\n", st.LastError)
	}
	if len(st.Lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tITEM\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range st.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.ItemID, l.Name, l.Quantity, money(l.UnitPrice), money(l.Subtotal()))
	}
	_ = tw.Flush()

	s := pricing.Summarize(st.Total)
	fmt.Fprintf(w, "Items: %d\n", st.ItemCount)
	fmt.Fprintf(w, "Subtotal:     %s\n", money(s.Subtotal))
	fmt.Fprintf(w, "Tax (10%%):    %s\n", money(s.Tax))
	fmt.Fprintf(w, "Delivery fee: %s\n", money(s.DeliveryFee))
	fmt.Fprintf(w, "Total:        %s\n", money(s.Total))
}

func renderOrders(w io.Writer, orders []models.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tPLACED\tSTATUS\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.ID, o.PlacedAt.Local().Format("2006-01-02 15:04"), o.Status.Label(), money(o.Total))
	}
	_ = tw.Flush()
}

func renderOrder(w io.Writer, o models.Order) {
	fmt.Fprintf(w, "Order %s: %s\n", o.ID, o.Status.Label())
	if !o.PlacedAt.IsZero() {
		fmt.Fprintf(w, "Placed: %s\n", o.PlacedAt.Local().Format("2006-01-02 15:04"))
	}
	for _, l := range o.Lines {
		fmt.Fprintf(w, "  %d x %s @ %s\n", l.Quantity, l.Name, money(l.UnitPrice))
	}
	fmt.Fprintf(w, "Total: %s\n", money(o.Total))
	if o.DeliveryAddress != "" {
		fmt.Fprintf(w, "Deliver to: %s\n", strings.ReplaceAll(o.DeliveryAddress, "\n", ", "))
	}
	if o.PaymentMethod != "" {
		fmt.Fprintf(w, "Payment: %s\n", o.PaymentMethod.Label())
	}
}

func renderProfile(w io.Writer, u models.User) {
	fmt.Fprintf(w, "Name:  %s\nEmail: %s\n", u.Name, u.Email)
	if u.Phone != "" {
		fmt.Fprintf(w, "Phone: %s\n", u.Phone)
	}
}
