package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/smartphone"
)

// GetSmartphones returns the full catalog.
func (c *Client) GetSmartphones(ctx context.Context) ([]smartphone.Smartphone, error) {
	var out []smartphone.Smartphone
	if err := c.do(ctx, http.MethodGet, "/api/v1/smartphones", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSmartphonesByIDs returns only the requested catalog entries.
// Unknown ids are silently skipped.
func (c *Client) GetSmartphonesByIDs(ctx context.Context, ids []int64) ([]smartphone.Smartphone, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	path := "/api/v1/smartphones?ids=" + strings.Join(parts, ",")
	var out []smartphone.Smartphone
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSmartphone returns one catalog entry with its reviews embedded.
func (c *Client) GetSmartphone(ctx context.Context, id int64) (smartphone.Smartphone, error) {
	var out smartphone.Smartphone
	path := fmt.Sprintf("/api/v1/smartphones/%d", id)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return smartphone.Smartphone{}, err
	}
	return out, nil
}
