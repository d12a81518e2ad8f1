package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/junaidrashid-git/bidaya-api/policy"
)

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := c.do(ctx, http.MethodGet, "/user/products", nil, &products)
	return products, err
}

func (c *Client) Product(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, http.MethodGet, idPath("/user/products/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := c.do(ctx, http.MethodGet, "/user/categories", nil, &categories)
	return categories, err
}

// SubmitOrder sends a locally held cart to the backend.
func (c *Client) SubmitOrder(ctx context.Context, draft models.OrderDraft) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/user/orders", draft, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := c.do(ctx, http.MethodGet, "/user/orders", nil, &orders)
	return orders, err
}

func (c *Client) MyOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/user/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) Favorites(ctx context.Context) ([]models.Favorite, error) {
	var favs []models.Favorite
	err := c.do(ctx, http.MethodGet, "/user/favorites", nil, &favs)
	return favs, err
}

func (c *Client) AddFavorite(ctx context.Context, productID uint) error {
	return c.do(ctx, http.MethodPost, idPath("/user/favorites/%d", productID), nil, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, productID uint) error {
	return c.do(ctx, http.MethodDelete, idPath("/user/favorites/%d", productID), nil, nil)
}

func (c *Client) Policy(ctx context.Context, slug string) (*policy.Page, error) {
	var page policy.Page
	if err := c.do(ctx, http.MethodGet, "/user/policy/"+escape(slug), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
