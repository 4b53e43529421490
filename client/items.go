package client

import (
	"context"
	"net/http"

	"github.com/contract-tests/items-contract-tests/servicedef"
)

const (
	routeLogin = "login"
	routeItems = "items"
	routeItem  = "items/{id}"
)

// Login posts the credentials to the login resource and returns the raw response. Unlike
// Authenticate, it does not interpret the result.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: c.paths.Login, Route: routeLogin, Form: creds.Form()})
}

func (c *Client) CreateItem(ctx context.Context, payload servicedef.ItemPayload) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: c.paths.Items, Route: routeItems, Body: payload})
}

func (c *Client) ListItems(ctx context.Context, params servicedef.ListParams) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: c.paths.Items, Route: routeItems, Query: params.Query()})
}

func (c *Client) GetItem(ctx context.Context, id servicedef.ItemID) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: c.paths.Item(id), Route: routeItem})
}

func (c *Client) UpdateItem(ctx context.Context, id servicedef.ItemID, payload servicedef.ItemPayload) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: c.paths.Item(id), Route: routeItem, Body: payload})
}

func (c *Client) DeleteItem(ctx context.Context, id servicedef.ItemID) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: c.paths.Item(id), Route: routeItem})
}
