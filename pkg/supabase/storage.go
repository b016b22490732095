package supabase

import (
	"context"
	"strings"
)

type uploadResponse struct {
	Key string `json:"Key"`
}

// Upload stores data at bucket/name and returns the object key. Existing
// objects are overwritten.
func (c *Client) Upload(ctx context.Context, accessToken, bucket, name string, data []byte, contentType string) (string, error) {
	var out uploadResponse
	resp, err := c.request(accessToken).
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(data).
		SetResult(&out).
		Post("/storage/v1/object/" + bucket + "/" + strings.TrimPrefix(name, "/"))
	if err := checkResponse(resp, err); err != nil {
		return "", err
	}
	if out.Key == "" {
		out.Key = bucket + "/" + name
	}
	return out.Key, nil
}
