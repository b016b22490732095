package objectstore_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"interview-tayari/pkg/objectstore"
	"interview-tayari/pkg/supabase"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPutter struct {
	mock.Mock
}

func (m *MockPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3StorePut(t *testing.T) {
	t.Run("Should upload to the bucket", func(t *testing.T) {
		putter := new(MockPutter)
		putter.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			body, _ := io.ReadAll(in.Body)
			return *in.Bucket == "proofs" && *in.Key == "u-1/a.jpg" && *in.ContentType == "image/jpeg" && string(body) == "jpeg"
		})).Return(&s3.PutObjectOutput{}, nil)

		path, err := objectstore.NewS3Store(putter, "proofs").Put(context.Background(), "u-1/a.jpg", []byte("jpeg"), "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "proofs/u-1/a.jpg", path)
		putter.AssertExpectations(t)
	})

	t.Run("Should wrap upload errors", func(t *testing.T) {
		putter := new(MockPutter)
		putter.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		_, err := objectstore.NewS3Store(putter, "proofs").Put(context.Background(), "k", []byte("x"), "image/png")
		assert.ErrorContains(t, err, "access denied")
	})
}

func TestSupabaseStorePut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/storage/v1/object/verifications/u-1/a.jpg", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Key":"verifications/u-1/a.jpg"}`))
	}))
	defer srv.Close()

	client, err := supabase.New(supabase.Config{URL: srv.URL, Key: "anon"})
	require.NoError(t, err)

	store := objectstore.NewSupabaseStore(client, "verifications", func(context.Context) string { return "user-token" })
	path, err := store.Put(context.Background(), "u-1/a.jpg", []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "verifications/u-1/a.jpg", path)
}
