package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/idlikadai3-prog/idli-kadai-frontend/models"
)

// MenuItemInput carries a menu create/update form. When Image is set the
// request goes out as multipart/form-data with the file attached; otherwise a
// plain JSON body is sent.
type MenuItemInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Available   bool    `json:"available"`
	ImageURL    string  `json:"image_url,omitempty"`

	Image         io.Reader `json:"-"`
	ImageFilename string    `json:"-"`
}

func (c *Client) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := c.doJSON(ctx, http.MethodGet, "/menu", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateMenuItem(ctx context.Context, in MenuItemInput) error {
	return c.sendMenuItem(ctx, http.MethodPost, "/menu", in)
}

func (c *Client) UpdateMenuItem(ctx context.Context, id string, in MenuItemInput) error {
	return c.sendMenuItem(ctx, http.MethodPut, "/menu/"+id, in)
}

func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/menu/"+id, nil, "", nil)
}

func (c *Client) sendMenuItem(ctx context.Context, method, path string, in MenuItemInput) error {
	if in.Image == nil {
		return c.doJSON(ctx, method, path, in, nil)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":        in.Name,
		"description": in.Description,
		"price":       strconv.FormatFloat(in.Price, 'f', -1, 64),
		"category":    in.Category,
		"available":   strconv.FormatBool(in.Available),
	}
	if in.ImageURL != "" {
		fields["image_url"] = in.ImageURL
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("multipart field %s: %w", k, err)
		}
	}
	name := in.ImageFilename
	if name == "" {
		name = "image"
	}
	part, err := mw.CreateFormFile("image", name)
	if err != nil {
		return fmt.Errorf("multipart image part: %w", err)
	}
	if _, err := io.Copy(part, in.Image); err != nil {
		return fmt.Errorf("multipart image copy: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("multipart close: %w", err)
	}
	return c.do(ctx, method, path, &buf, mw.FormDataContentType(), nil)
}
