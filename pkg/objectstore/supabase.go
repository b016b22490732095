package objectstore

import (
	"context"

	"interview-tayari/pkg/supabase"
)

// TokenFunc returns the access token to upload with, "" for the project key.
type TokenFunc func(ctx context.Context) string

type SupabaseStore struct {
	client *supabase.Client
	bucket string
	token  TokenFunc
}

func NewSupabaseStore(client *supabase.Client, bucket string, token TokenFunc) *SupabaseStore {
	if token == nil {
		token = func(context.Context) string { return "" }
	}
	return &SupabaseStore{client: client, bucket: bucket, token: token}
}

func (s *SupabaseStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return s.client.Upload(ctx, s.token(ctx), s.bucket, key, data, contentType)
}
