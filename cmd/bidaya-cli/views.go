package main

import (
	"fmt"
	"strings"

	"github.com/junaidrashid-git/bidaya-api/admin"
	"github.com/junaidrashid-git/bidaya-api/checkout"
	"github.com/junaidrashid-git/bidaya-api/guard"
	"github.com/junaidrashid-git/bidaya-api/models"
)

type adminEntry = admin.Entry

func (m model) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Bidaya storefront")
	if u := m.app.session.Current(); u != nil {
		fmt.Fprintf(b, "Signed in as %s (%s)\n", u.FullName, u.Role)
	}
	fmt.Fprintln(b, "")

	if m.app.session.Loading() {
		fmt.Fprintln(b, "Loading session...")
		return b.String()
	}

	switch {
	case m.path == guard.LoginPath:
		m.viewLogin(b)
	case m.path == registerPath:
		m.viewRegister(b)
	case m.path == guard.PendingPath:
		fmt.Fprintln(b, "Your account is waiting for admin approval.")
		fmt.Fprintln(b, "\nControls: enter back to sign in, q quit")
	case m.path == guard.HomePath:
		m.viewHome(b)
	case strings.HasPrefix(m.path, productPrefix):
		m.viewProduct(b)
	case m.path == cartPath:
		m.viewCart(b)
	case m.path == checkoutPath:
		m.viewCheckout(b)
	case strings.HasPrefix(m.path, confirmedPrefix):
		m.viewConfirmation(b)
	case m.path == ordersPath:
		m.viewOrders(b)
	case m.path == adminPath:
		m.viewAdmin(b)
	}

	if m.status != "" {
		fmt.Fprintf(b, "\n%s\n", m.status)
	}
	return b.String()
}

func (m model) viewLogin(b *strings.Builder) {
	fmt.Fprintln(b, "Sign in")
	m.login.render(b)
	fmt.Fprintln(b, "\nControls: tab next field, enter sign in, ctrl+n register, ctrl+c quit")
}

func (m model) viewRegister(b *strings.Builder) {
	fmt.Fprintln(b, "Create a trader account")
	m.register.render(b)
	fmt.Fprintln(b, "\nControls: tab next field, enter submit, esc back")
}

func (m model) viewHome(b *strings.Builder) {
	category := "All"
	if m.catIdx > 0 && m.catIdx <= len(m.categories) {
		category = m.categories[m.catIdx-1].Name
	}
	visible, pages := m.visibleProducts()
	fmt.Fprintf(b, "Category: < %s >   Page %d/%d   Cart: %d items\n", category, m.page, max(pages, 1), m.app.cart.Totals().ItemCount)
	if m.searching || m.search.Value() != "" {
		fmt.Fprintln(b, m.search.View())
	}
	fmt.Fprintln(b, "")
	if len(visible) == 0 {
		fmt.Fprintln(b, "  No products.")
	}
	for i, p := range visible {
		marker := " "
		if i == m.cursor {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-30s cost %s  sell %s-%s  stock %d\n", marker, p.Name, p.Price, p.MinPrice, p.MaxPrice, p.Stock)
	}
	fmt.Fprintln(b, "\nControls: up/down select, left/right category, [ ] page, / search, enter open,")
	fmt.Fprintln(b, "          c cart, o orders, a admin, r reload, l sign out, q quit")
}

func (m model) viewProduct(b *strings.Builder) {
	p := m.product
	if p == nil {
		fmt.Fprintln(b, "Loading product...")
		return
	}
	fmt.Fprintln(b, p.Name)
	if p.Description != "" {
		fmt.Fprintln(b, p.Description)
	}
	fmt.Fprintf(b, "\nCost price: %s\nAllowed selling price: %s - %s\nIn stock: %d\n\n", p.Price, p.MinPrice, p.MaxPrice, p.Stock)
	fmt.Fprintln(b, m.price.View())
	fmt.Fprintf(b, "  Quantity: %d\n", m.qty)
	fmt.Fprintln(b, "\nControls: type price, +/- quantity, enter add to cart, esc back")
}

func (m model) viewCart(b *strings.Builder) {
	items := m.app.cart.Items()
	fmt.Fprintln(b, "Cart")
	if len(items) == 0 {
		fmt.Fprintln(b, "  Your cart is empty.")
	}
	for i, it := range items {
		marker := " "
		if i == m.cartCursor {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-30s x%d  at %s\n", marker, it.Product.Name, it.Quantity, it.SellingPrice)
	}
	t := m.app.cart.Totals()
	fmt.Fprintf(b, "\nCost: %s   Revenue: %s   Your profit: %s\n", t.TotalCost, t.TotalRevenue, t.NetProfit)
	fmt.Fprintln(b, "\nControls: up/down select, +/- quantity, d remove, x clear, enter checkout, esc back")
}

func (m model) viewCheckout(b *strings.Builder) {
	o := m.app.checkout
	step := o.Step()
	fmt.Fprintf(b, "Checkout - step %d of 4 (%s)\n\n", step, step)

	switch step {
	case checkout.StepCustomerInfo:
		m.customer.render(b)
	case checkout.StepAddress:
		fmt.Fprintf(b, "  Governorate: < %s >\n", models.Governorates()[m.govIdx])
		m.address.render(b)
	case checkout.StepPaymentMethod:
		for i, pm := range models.PaymentMethods() {
			marker := " "
			if i == m.payIdx {
				marker = "*"
			}
			fmt.Fprintf(b, " %s %s\n", marker, checkout.PaymentLabel(pm))
		}
	case checkout.StepReview:
		c := o.Customer()
		fmt.Fprintf(b, "  %s, %s\n  %s - %s\n", c.Name, c.Phone, c.Governorate, c.Address)
		if c.Notes != "" {
			fmt.Fprintf(b, "  Notes: %s\n", c.Notes)
		}
		fmt.Fprintf(b, "  Payment: %s\n\n", checkout.PaymentLabel(o.PaymentMethod()))
		for _, it := range m.app.cart.Items() {
			fmt.Fprintf(b, "  %-30s x%d  at %s\n", it.Product.Name, it.Quantity, it.SellingPrice)
		}
		t := m.app.cart.Totals()
		fmt.Fprintf(b, "\n  Total to collect: %s   Your profit: %s\n", t.TotalRevenue, t.NetProfit)
		if err := o.Err(); err != nil {
			fmt.Fprintf(b, "\n  Last attempt failed: %s\n", describe(err))
		}
	}
	fmt.Fprintln(b, "\nControls: tab next field, left/right choose, enter continue, esc back")
}

func (m model) viewConfirmation(b *strings.Builder) {
	fmt.Fprintln(b, "Order placed")
	if o := m.order; o != nil {
		fmt.Fprintf(b, "\n  Order %s\n  Status: %s\n  Total: %s   Profit: %s\n", o.ID, o.Status, o.TotalRevenue, o.NetProfit)
	} else {
		fmt.Fprintf(b, "\n  Order %s\n", strings.TrimPrefix(m.path, confirmedPrefix))
	}
	fmt.Fprintln(b, "\nControls: enter continue shopping, q quit")
}

func (m model) viewOrders(b *strings.Builder) {
	fmt.Fprintln(b, "My orders")
	if len(m.orders) == 0 {
		fmt.Fprintln(b, "  No orders yet.")
	}
	for _, o := range m.orders {
		fmt.Fprintf(b, "  %s  %-10s  %-14s  profit %s\n", o.Date.Format("2006-01-02"), o.Status, o.Customer.Name, o.NetProfit)
	}
	fmt.Fprintln(b, "\nControls: esc back, q quit")
}

func (m model) viewAdmin(b *strings.Builder) {
	titles := []string{"Pending", "Traders", "Banned"}
	for i, t := range titles {
		if i == m.adminList {
			fmt.Fprintf(b, "[%d %s] ", i+1, t)
		} else {
			fmt.Fprintf(b, " %d %s  ", i+1, t)
		}
	}
	fmt.Fprintln(b, "")
	fmt.Fprintln(b, "")

	entries := m.adminEntries()
	if len(entries) == 0 {
		fmt.Fprintln(b, "  Nobody here.")
	}
	for i, e := range entries {
		marker := " "
		if i == m.adminCursor {
			marker = ">"
		}
		nick := e.Display()
		if e.PendingNickname != nil {
			nick += " (saving)"
		}
		fmt.Fprintf(b, " %s %-24s %-28s %-10s %s\n", marker, e.User.FullName, e.User.Email, e.User.Governorate, nick)
	}
	if m.editingNick {
		fmt.Fprintln(b, "")
		fmt.Fprintln(b, m.nickname.View())
	}
	fmt.Fprintln(b, "\nControls: 1/2/3 list, a approve, x reject, b ban, u unban, p promote, n nickname, r reload, esc back")
}
