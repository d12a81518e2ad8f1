package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/junaidrashid-git/bidaya-api/reports"
)

func (c *Client) users(ctx context.Context, path string) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, http.MethodGet, path, nil, &users)
	return users, err
}

func (c *Client) PendingUsers(ctx context.Context) ([]models.User, error) {
	return c.users(ctx, "/admin/users/pending")
}

func (c *Client) ApprovedTraders(ctx context.Context) ([]models.User, error) {
	return c.users(ctx, "/admin/traders")
}

func (c *Client) BannedUsers(ctx context.Context) ([]models.User, error) {
	return c.users(ctx, "/admin/users/banned")
}

func (c *Client) userAction(ctx context.Context, id uint, action string) error {
	return c.do(ctx, http.MethodPost, idPath("/admin/users/%d/", id)+action, nil, nil)
}

func (c *Client) Approve(ctx context.Context, id uint) error { return c.userAction(ctx, id, "approve") }
func (c *Client) Reject(ctx context.Context, id uint) error  { return c.userAction(ctx, id, "reject") }
func (c *Client) Ban(ctx context.Context, id uint) error     { return c.userAction(ctx, id, "ban") }
func (c *Client) Unban(ctx context.Context, id uint) error   { return c.userAction(ctx, id, "unban") }
func (c *Client) Promote(ctx context.Context, id uint) error { return c.userAction(ctx, id, "promote") }

func (c *Client) SetNickname(ctx context.Context, id uint, nickname string) error {
	body := map[string]string{"nickname": nickname}
	return c.do(ctx, http.MethodPut, idPath("/admin/users/%d/nickname", id), body, nil)
}

// AllOrders lists every order; an empty status means no filter.
func (c *Client) AllOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	path := "/admin/orders"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	var orders []models.Order
	err := c.do(ctx, http.MethodGet, path, nil, &orders)
	return orders, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPut, "/admin/orders/"+url.PathEscape(id)+"/status", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) Dashboard(ctx context.Context) (*reports.DashboardStats, error) {
	var stats reports.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Payouts(ctx context.Context) ([]reports.Payout, error) {
	var payouts []reports.Payout
	err := c.do(ctx, http.MethodGet, "/admin/payouts", nil, &payouts)
	return payouts, err
}
