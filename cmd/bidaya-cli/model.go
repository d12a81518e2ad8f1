package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/junaidrashid-git/bidaya-api/catalog"
	"github.com/junaidrashid-git/bidaya-api/checkout"
	"github.com/junaidrashid-git/bidaya-api/guard"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/shopspring/decimal"
)

const (
	registerPath     = "/register"
	cartPath         = "/cart"
	checkoutPath     = "/checkout"
	ordersPath       = "/orders"
	adminPath        = "/admin/requests"
	productPrefix    = "/products/"
	confirmedPrefix  = "/order-confirmation/"
	requestTimeout   = 15 * time.Second
	adminListPending = 0
	adminListTraders = 1
	adminListBanned  = 2
)

type (
	sessionReadyMsg struct{}
	loginMsg        struct{ err error }
	registerMsg     struct{ err error }
	logoutMsg       struct{ err error }
	catalogMsg      struct {
		products   []models.Product
		categories []models.Category
		err        error
	}
	productMsg struct {
		product *models.Product
		err     error
	}
	ordersMsg struct {
		orders []models.Order
		err    error
	}
	placedMsg struct {
		res checkout.Result
		err error
	}
	rosterMsg struct{ err error }
)

type model struct {
	app    *app
	path   string
	status string
	busy   bool

	login    form
	register form

	products   []models.Product
	categories []models.Category
	catIdx     int
	search     textinput.Model
	searching  bool
	page       int
	cursor     int

	product *models.Product
	price   textinput.Model
	qty     int

	cartCursor int

	customer form
	address  form
	govIdx   int
	payIdx   int

	order  *models.Order
	orders []models.Order

	adminList   int
	adminCursor int
	nickname    textinput.Model
	editingNick bool
}

func newModel(a *app) model {
	return model{
		app:  a,
		path: guard.HomePath,
		login: newForm(
			newField("Email"),
			newSecretField("Password"),
		),
		register: newForm(
			newField("Full name"),
			newField("Email"),
			newSecretField("Password"),
			newField("Phone"),
			newField("Governorate"),
			newField("Age"),
		),
		search:   newField("Search"),
		page:     1,
		price:    newField("Selling price"),
		qty:      1,
		nickname: newField("Nickname"),
	}
}

func (m model) Init() tea.Cmd {
	s := m.app.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		s.Init(ctx)
		return sessionReadyMsg{}
	}
}

// goTo runs path through the route table and follows redirects.
func (m model) goTo(path string) (model, tea.Cmd) {
	for i := 0; i < 3; i++ {
		out := m.app.routes.Check(guard.State(m.app.session.Snapshot()), path)
		switch out.Kind {
		case guard.Loading:
			m.path = path
			return m, nil
		case guard.Render:
			m.path = path
			return m.enter()
		case guard.RedirectHome:
			m.status = "That screen is for admins only."
		}
		path = out.Location
	}
	m.path = guard.LoginPath
	return m, nil
}

// enter starts whatever loading the current screen needs.
func (m model) enter() (model, tea.Cmd) {
	switch {
	case m.path == guard.HomePath:
		return m, m.loadCatalog()
	case m.path == ordersPath:
		return m, m.loadOrders()
	case m.path == adminPath:
		return m, m.refreshRoster()
	case m.path == checkoutPath:
		if res, err := m.app.checkout.Guard(); err != nil {
			m.status = "Your cart is empty."
			return m.goTo(res.Redirect)
		}
		m.app.checkout.Reset()
		c := m.app.checkout.Customer()
		m.customer = newForm(newField("Name"), newField("Phone"))
		m.customer.set(0, c.Name)
		m.customer.set(1, c.Phone)
		m.address = newForm(newField("Address"), newField("Notes"))
		m.address.set(0, c.Address)
		m.address.set(1, c.Notes)
		m.govIdx = indexOf(models.Governorates(), c.Governorate)
		m.payIdx = indexOfMethod(m.app.checkout.PaymentMethod())
	case strings.HasPrefix(m.path, productPrefix):
		id, err := strconv.ParseUint(strings.TrimPrefix(m.path, productPrefix), 10, 64)
		if err != nil {
			return m.goTo(guard.HomePath)
		}
		m.product = nil
		return m, m.loadProduct(uint(id))
	}
	return m, nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case sessionReadyMsg:
		return m.goTo(m.path)

	case loginMsg:
		m.busy = false
		switch {
		case errors.Is(msg.err, models.ErrAccountNotApproved):
			return m.goTo(guard.PendingPath)
		case errors.Is(msg.err, models.ErrAccountBanned):
			m.status = "This account has been banned."
		case errors.Is(msg.err, models.ErrInvalidCredentials):
			m.status = "Wrong email or password."
		case msg.err != nil:
			m.status = "Sign in failed: " + msg.err.Error()
		default:
			m.status = ""
			m.login.set(1, "")
			return m.goTo(guard.HomePath)
		}
		return m, nil

	case registerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Registration failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "Registered. An admin will review your account."
		return m.goTo(guard.PendingPath)

	case logoutMsg:
		if msg.err != nil {
			m.status = "Signed out locally: " + msg.err.Error()
		}
		return m.goTo(guard.LoginPath)

	case catalogMsg:
		m.busy = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.products, m.categories = msg.products, msg.categories
		m.clampHome()
		return m, nil

	case productMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m.goTo(guard.HomePath)
		}
		m.product = msg.product
		m.price.SetValue(msg.product.MinPrice.String())
		m.price.CursorEnd()
		m.qty = 1
		return m, nil

	case ordersMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		m.orders = msg.orders
		return m, nil

	case placedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Order failed: " + msg.err.Error()
			if msg.res.Redirect != "" {
				return m.goTo(msg.res.Redirect)
			}
			return m, nil
		}
		m.status = ""
		m.order = msg.res.Order
		return m.goTo(msg.res.Redirect)

	case rosterMsg:
		m.busy = false
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		m.clampAdmin()
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.path == guard.LoginPath:
		return m.loginKey(k)
	case m.path == registerPath:
		return m.registerKey(k)
	case m.path == guard.PendingPath:
		switch k.String() {
		case "q":
			return m, tea.Quit
		case "enter", "l":
			return m.goTo(guard.LoginPath)
		}
	case m.path == guard.HomePath:
		return m.homeKey(k)
	case strings.HasPrefix(m.path, productPrefix):
		return m.productKey(k)
	case m.path == cartPath:
		return m.cartKey(k)
	case m.path == checkoutPath:
		return m.checkoutKey(k)
	case strings.HasPrefix(m.path, confirmedPrefix), m.path == ordersPath:
		switch k.String() {
		case "q":
			return m, tea.Quit
		case "enter", "esc":
			return m.goTo(guard.HomePath)
		}
	case m.path == adminPath:
		return m.adminKey(k)
	}
	return m, nil
}

func (m model) loginKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.Type {
	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.status = "Signing in..."
		creds := models.Credentials{Email: m.login.value(0), Password: m.login.raw(1)}
		s := m.app.session
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			return loginMsg{err: s.Login(ctx, creds)}
		}
	case tea.KeyCtrlN:
		m.status = ""
		return m.goTo(registerPath)
	}
	return m, m.login.handle(k)
}

func (m model) registerKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.Type {
	case tea.KeyEsc:
		return m.goTo(guard.LoginPath)
	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		age, err := strconv.Atoi(m.register.value(5))
		if err != nil {
			m.status = "Age must be a number."
			return m, nil
		}
		reg := models.Registration{
			FullName:    m.register.value(0),
			Email:       m.register.value(1),
			Password:    m.register.raw(2),
			Phone:       m.register.value(3),
			Governorate: m.register.value(4),
			Age:         age,
		}
		m.busy = true
		s := m.app.session
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			_, err := s.Register(ctx, reg)
			return registerMsg{err: err}
		}
	}
	return m, m.register.handle(k)
}

func (m model) homeKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch k.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.searching = false
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(k)
			m.page, m.cursor = 1, 0
			return m, cmd
		}
		return m, nil
	}

	visible, pages := m.visibleProducts()
	switch k.String() {
	case "q":
		return m, tea.Quit
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "left":
		if m.catIdx > 0 {
			m.catIdx--
			m.page, m.cursor = 1, 0
		}
	case "right":
		if m.catIdx < len(m.categories) {
			m.catIdx++
			m.page, m.cursor = 1, 0
		}
	case "]":
		if m.page < pages {
			m.page++
			m.cursor = 0
		}
	case "[":
		if m.page > 1 {
			m.page--
			m.cursor = 0
		}
	case "/":
		m.searching = true
	case "enter":
		if len(visible) > 0 {
			m.status = ""
			return m.goTo(productPrefix + strconv.FormatUint(uint64(visible[m.cursor].ID), 10))
		}
	case "c":
		m.status = ""
		return m.goTo(cartPath)
	case "o":
		m.status = ""
		return m.goTo(ordersPath)
	case "a":
		m.status = ""
		return m.goTo(adminPath)
	case "r":
		m.busy = true
		return m, m.loadCatalog()
	case "l":
		s := m.app.session
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			return logoutMsg{err: s.Logout(ctx)}
		}
	}
	return m, nil
}

func (m model) productKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.product == nil {
		if k.Type == tea.KeyEsc {
			return m.goTo(guard.HomePath)
		}
		return m, nil
	}
	switch k.String() {
	case "esc":
		return m.goTo(guard.HomePath)
	case "+", "=":
		m.qty++
		return m, nil
	case "-":
		if m.qty > 1 {
			m.qty--
		}
		return m, nil
	case "enter":
		price, err := decimal.NewFromString(strings.TrimSpace(m.price.Value()))
		if err != nil {
			m.status = "Selling price must be a number."
			return m, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := m.app.cart.Add(ctx, *m.product, m.qty, price); err != nil {
			m.status = describe(err)
			return m, nil
		}
		m.status = fmt.Sprintf("Added %d x %s to the cart.", m.qty, m.product.Name)
		return m.goTo(guard.HomePath)
	}
	if k.Type == tea.KeyBackspace || (k.Type == tea.KeyRunes && isNumeric(k.Runes)) {
		var cmd tea.Cmd
		m.price, cmd = m.price.Update(k)
		return m, cmd
	}
	return m, nil
}

func (m model) cartKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.app.cart.Items()
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var err error
	switch k.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		return m.goTo(guard.HomePath)
	case "up":
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case "down":
		if m.cartCursor < len(items)-1 {
			m.cartCursor++
		}
	case "+", "=":
		if len(items) > 0 {
			it := items[m.cartCursor]
			err = m.app.cart.SetQuantity(ctx, it.Product.ID, it.Quantity+1)
		}
	case "-":
		if len(items) > 0 {
			it := items[m.cartCursor]
			err = m.app.cart.SetQuantity(ctx, it.Product.ID, it.Quantity-1)
		}
	case "d":
		if len(items) > 0 {
			err = m.app.cart.Remove(ctx, items[m.cartCursor].Product.ID)
		}
	case "x":
		err = m.app.cart.Clear(ctx)
	case "enter", "k":
		m.status = ""
		return m.goTo(checkoutPath)
	}
	if err != nil {
		m.status = describe(err)
	}
	if n := m.app.cart.Len(); m.cartCursor >= n {
		m.cartCursor = max(n-1, 0)
	}
	return m, nil
}

func (m model) checkoutKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	o := m.app.checkout
	step := o.Step()

	switch k.Type {
	case tea.KeyEsc:
		if step == checkout.StepCustomerInfo {
			return m.goTo(cartPath)
		}
		res, err := o.Previous()
		return m.afterStep(res, err)
	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		if step == checkout.StepReview {
			m.busy = true
			m.status = "Placing order..."
			return m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
				defer cancel()
				res, err := o.Submit(ctx)
				return placedMsg{res: res, err: err}
			}
		}
		if res, err := m.syncStep(step); err != nil {
			return m.afterStep(res, err)
		}
		res, err := o.Next()
		return m.afterStep(res, err)
	}

	switch step {
	case checkout.StepCustomerInfo:
		return m, m.customer.handle(k)
	case checkout.StepAddress:
		switch k.Type {
		case tea.KeyLeft:
			m.govIdx = (m.govIdx + len(models.Governorates()) - 1) % len(models.Governorates())
		case tea.KeyRight:
			m.govIdx = (m.govIdx + 1) % len(models.Governorates())
		default:
			return m, m.address.handle(k)
		}
	case checkout.StepPaymentMethod:
		methods := models.PaymentMethods()
		switch k.Type {
		case tea.KeyLeft, tea.KeyUp:
			m.payIdx = (m.payIdx + len(methods) - 1) % len(methods)
		case tea.KeyRight, tea.KeyDown:
			m.payIdx = (m.payIdx + 1) % len(methods)
		}
	}
	return m, nil
}

// syncStep copies the screen's inputs into the orchestrator.
func (m model) syncStep(step checkout.Step) (checkout.Result, error) {
	o := m.app.checkout
	switch step {
	case checkout.StepCustomerInfo:
		return o.SetCustomer(m.customer.value(0), m.customer.value(1))
	case checkout.StepAddress:
		return o.SetAddress(models.Governorates()[m.govIdx], m.address.value(0), m.address.value(1))
	case checkout.StepPaymentMethod:
		return o.SetPaymentMethod(models.PaymentMethods()[m.payIdx])
	}
	return checkout.Result{Step: step}, nil
}

func (m model) afterStep(res checkout.Result, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.status = describe(err)
		if res.Redirect != "" {
			return m.goTo(res.Redirect)
		}
		return m, nil
	}
	m.status = ""
	return m, nil
}

func (m model) adminKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.adminEntries()
	if m.editingNick {
		switch k.Type {
		case tea.KeyEsc:
			m.editingNick = false
		case tea.KeyEnter:
			m.editingNick = false
			if len(entries) == 0 {
				return m, nil
			}
			id, nick := entries[m.adminCursor].User.ID, strings.TrimSpace(m.nickname.Value())
			r := m.app.roster
			return m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
				defer cancel()
				return rosterMsg{err: r.SetNickname(ctx, id, nick)}
			}
		default:
			var cmd tea.Cmd
			m.nickname, cmd = m.nickname.Update(k)
			return m, cmd
		}
		return m, nil
	}

	var action func(context.Context, uint) error
	r := m.app.roster
	switch k.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		return m.goTo(guard.HomePath)
	case "1", "2", "3":
		m.adminList = int(k.Runes[0] - '1')
		m.adminCursor = 0
	case "up":
		if m.adminCursor > 0 {
			m.adminCursor--
		}
	case "down":
		if m.adminCursor < len(entries)-1 {
			m.adminCursor++
		}
	case "r":
		return m, m.refreshRoster()
	case "n":
		if len(entries) > 0 {
			m.editingNick = true
			m.nickname.SetValue(entries[m.adminCursor].Display())
			m.nickname.CursorEnd()
		}
	case "a":
		action = r.Approve
	case "x":
		action = r.Reject
	case "b":
		action = r.Ban
	case "u":
		action = r.Unban
	case "p":
		action = r.Promote
	}
	if action == nil || len(entries) == 0 {
		return m, nil
	}
	id := entries[m.adminCursor].User.ID
	m.busy = true
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return rosterMsg{err: action(ctx, id)}
	}
}

func (m model) loadCatalog() tea.Cmd {
	c := m.app.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		products, err := c.Products(ctx)
		if err != nil {
			return catalogMsg{err: err}
		}
		categories, err := c.Categories(ctx)
		return catalogMsg{products: products, categories: categories, err: err}
	}
}

func (m model) loadProduct(id uint) tea.Cmd {
	c := m.app.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		p, err := c.Product(ctx, id)
		return productMsg{product: p, err: err}
	}
}

func (m model) loadOrders() tea.Cmd {
	api := m.app.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		orders, err := api.MyOrders(ctx)
		return ordersMsg{orders: orders, err: err}
	}
}

func (m model) refreshRoster() tea.Cmd {
	r := m.app.roster
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return rosterMsg{err: r.Refresh(ctx)}
	}
}

func (m model) visibleProducts() ([]models.Product, int) {
	var categoryID uint
	if m.catIdx > 0 && m.catIdx <= len(m.categories) {
		categoryID = m.categories[m.catIdx-1].ID
	}
	return catalog.Page(catalog.Filter(m.products, categoryID, m.search.Value()), m.page)
}

func (m *model) clampHome() {
	if m.catIdx > len(m.categories) {
		m.catIdx = 0
	}
	if _, pages := m.visibleProducts(); m.page > pages {
		m.page = 1
	}
	if visible, _ := m.visibleProducts(); m.cursor >= len(visible) {
		m.cursor = 0
	}
}

func (m model) adminEntries() []adminEntry {
	switch m.adminList {
	case adminListTraders:
		return m.app.roster.Traders()
	case adminListBanned:
		return m.app.roster.Banned()
	}
	return m.app.roster.Pending()
}

func (m *model) clampAdmin() {
	if n := len(m.adminEntries()); m.adminCursor >= n {
		m.adminCursor = max(n-1, 0)
	}
}

// describe turns shared errors into a line for the status bar.
func describe(err error) string {
	switch {
	case errors.Is(err, models.ErrPriceOutOfBand):
		return "Selling price is outside the allowed range."
	case errors.Is(err, models.ErrInsufficientStock):
		return "Not enough stock."
	case errors.Is(err, models.ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, models.ErrUnauthenticated):
		return "Please sign in again."
	}
	return err.Error()
}

func isNumeric(r []rune) bool {
	for _, c := range r {
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return 0
}

func indexOfMethod(m models.PaymentMethod) int {
	for i, pm := range models.PaymentMethods() {
		if pm == m {
			return i
		}
	}
	return 0
}
