// Package reports runs the admin dashboard's aggregate queries with sqlx on
// the same connection pool GORM uses.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Point struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type DashboardStats struct {
	TotalTraders     int64           `json:"totalTraders"`
	TotalProducts    int64           `json:"totalProducts"`
	MonthlyOrders    int64           `json:"monthlyOrders"`
	MonthlyEarnings  decimal.Decimal `json:"monthlyEarnings"`
	TraderGrowth     []Point         `json:"traderGrowth"`
	SalesPerformance []Point         `json:"salesPerformance"`
	PendingApprovals int64           `json:"pendingApprovals"`
	MonthlyNetProfit decimal.Decimal `json:"monthlyNetProfit"`
}

type Payout struct {
	TraderID  uint            `db:"trader_id" json:"traderId"`
	FullName  string          `db:"full_name" json:"fullName"`
	Email     string          `db:"email" json:"email"`
	Orders    int64           `db:"orders" json:"orders"`
	NetProfit decimal.Decimal `db:"net_profit" json:"netProfit"`
	Revenue   decimal.Decimal `db:"revenue" json:"revenue"`
}

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

const growthMonths = 6

type Reporter struct {
	db  *sqlx.DB
	now func() time.Time
}

// New wraps gdb's pool. The sqlx driver name only selects the bind style.
func New(gdb *gorm.DB) (*Reporter, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("reports: %w", err)
	}
	driver := "postgres"
	if gdb.Dialector.Name() == "sqlite" {
		driver = "sqlite3"
	}
	return &Reporter{db: sqlx.NewDb(sqlDB, driver), now: time.Now}, nil
}

// Dashboard computes the admin landing page figures. "This month" is the
// calendar month in UTC.
func (r *Reporter) Dashboard(ctx context.Context) (*DashboardStats, error) {
	now := r.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	stats := &DashboardStats{}

	counts := []struct {
		dest  *int64
		query string
		args  []interface{}
	}{
		{&stats.TotalTraders, `SELECT COUNT(*) FROM users WHERE role = ? AND status = ?`,
			[]interface{}{string(models.RoleTrader), string(models.StatusApproved)}},
		{&stats.PendingApprovals, `SELECT COUNT(*) FROM users WHERE status = ?`,
			[]interface{}{string(models.StatusPending)}},
		{&stats.TotalProducts, `SELECT COUNT(*) FROM products WHERE deleted_at IS NULL`, nil},
		{&stats.MonthlyOrders, `SELECT COUNT(*) FROM orders WHERE date >= ? AND status <> ?`,
			[]interface{}{monthStart, string(models.OrderStatusCancelled)}},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dest, r.db.Rebind(c.query), c.args...); err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
	}

	var monthly []struct {
		Date         time.Time       `db:"date"`
		TotalRevenue decimal.Decimal `db:"total_revenue"`
		NetProfit    decimal.Decimal `db:"net_profit"`
	}
	err := r.db.SelectContext(ctx, &monthly, r.db.Rebind(
		`SELECT date, total_revenue, net_profit FROM orders WHERE date >= ? AND status <> ?`),
		monthStart, string(models.OrderStatusCancelled))
	if err != nil {
		return nil, fmt.Errorf("dashboard sales: %w", err)
	}

	stats.MonthlyEarnings = decimal.Zero
	stats.MonthlyNetProfit = decimal.Zero
	weeks := make([]decimal.Decimal, weekOfMonth(lastDay(monthStart)))
	for i := range weeks {
		weeks[i] = decimal.Zero
	}
	for _, o := range monthly {
		stats.MonthlyEarnings = stats.MonthlyEarnings.Add(o.TotalRevenue)
		stats.MonthlyNetProfit = stats.MonthlyNetProfit.Add(o.NetProfit)
		w := weekOfMonth(o.Date.UTC()) - 1
		if w >= 0 && w < len(weeks) {
			weeks[w] = weeks[w].Add(o.TotalRevenue)
		}
	}
	for i, v := range weeks {
		stats.SalesPerformance = append(stats.SalesPerformance, Point{Name: fmt.Sprintf("الأسبوع %d", i+1), Value: v})
	}

	growthStart := monthStart.AddDate(0, -(growthMonths - 1), 0)
	var joined []time.Time
	err = r.db.SelectContext(ctx, &joined, r.db.Rebind(
		`SELECT created_at FROM users WHERE role = ? AND created_at >= ?`),
		string(models.RoleTrader), growthStart)
	if err != nil {
		return nil, fmt.Errorf("dashboard growth: %w", err)
	}
	buckets := make([]int64, growthMonths)
	for _, t := range joined {
		t = t.UTC()
		idx := (t.Year()-growthStart.Year())*12 + int(t.Month()) - int(growthStart.Month())
		if idx >= 0 && idx < growthMonths {
			buckets[idx]++
		}
	}
	for i, n := range buckets {
		m := growthStart.AddDate(0, i, 0).Month()
		stats.TraderGrowth = append(stats.TraderGrowth, Point{Name: arabicMonths[m-1], Value: decimal.NewFromInt(n)})
	}
	return stats, nil
}

// Payouts is what each trader has earned on delivered orders.
func (r *Reporter) Payouts(ctx context.Context) ([]Payout, error) {
	payouts := []Payout{}
	err := r.db.SelectContext(ctx, &payouts, r.db.Rebind(`
		SELECT o.trader_id, u.full_name, u.email,
		       COUNT(*) AS orders,
		       COALESCE(SUM(o.net_profit), 0) AS net_profit,
		       COALESCE(SUM(o.total_revenue), 0) AS revenue
		FROM orders o
		JOIN users u ON u.id = o.trader_id
		WHERE o.status = ?
		GROUP BY o.trader_id, u.full_name, u.email
		ORDER BY net_profit DESC`), string(models.OrderStatusDelivered))
	if err != nil {
		return nil, fmt.Errorf("payouts: %w", err)
	}
	return payouts, nil
}

func weekOfMonth(t time.Time) int {
	return (t.Day()-1)/7 + 1
}

func lastDay(monthStart time.Time) time.Time {
	return monthStart.AddDate(0, 1, -1)
}
