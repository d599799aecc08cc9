// backend/internal/adapters/out/gcs/product_image_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// ProductImageRepositoryGCS serves catalog images from object storage.
//
// Layout (single bucket):
// - bucket: <project>-catalog
// - objectPath: products/{productId}/<fileName>
//
// Public access:
//   - The bucket carries IAM "allUsers: Storage Object Viewer" (uniform
//     access), so uploaded objects are publicly readable without per-object
//     ACL changes.
type ProductImageRepositoryGCS struct {
	Client *storage.Client
	Bucket string
	// Optional: if empty, uses https://storage.googleapis.com
	PublicBaseURL string
}

func NewProductImageRepositoryGCS(client *storage.Client, bucket string) *ProductImageRepositoryGCS {
	return &ProductImageRepositoryGCS{
		Client:        client,
		Bucket:        strings.TrimSpace(bucket),
		PublicBaseURL: "https://storage.googleapis.com",
	}
}

func (r *ProductImageRepositoryGCS) bucket() (*storage.BucketHandle, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_image_repository_gcs: storage client is nil")
	}
	b := strings.TrimSpace(r.Bucket)
	if b == "" {
		return nil, errors.New("product_image_repository_gcs: bucket is empty")
	}
	return r.Client.Bucket(b), nil
}

// PublicURL returns the public URL for an object path. Implements the
// catalog usecase's image resolver port.
func (r *ProductImageRepositoryGCS) PublicURL(objectPath string) string {
	obj := strings.TrimSpace(objectPath)
	if obj == "" {
		return obj
	}
	base := strings.TrimSpace(r.PublicBaseURL)
	if base == "" {
		base = "https://storage.googleapis.com"
	}
	// Encode path but keep "/" separators.
	parts := strings.Split(obj, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	encoded := strings.Join(parts, "/")
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), strings.TrimSpace(r.Bucket), encoded)
}

// Put uploads bytes to "bucket/objectPath" directly (non-signed upload).
// Used by catalog seeding/admin tooling.
func (r *ProductImageRepositoryGCS) Put(
	ctx context.Context,
	objectPath string,
	contentType string,
	data []byte,
) error {
	bh, err := r.bucket()
	if err != nil {
		return err
	}
	obj := strings.TrimSpace(objectPath)
	if obj == "" {
		return errors.New("product_image_repository_gcs: objectPath is empty")
	}
	w := bh.Object(obj).NewWriter(ctx)
	if ct := strings.TrimSpace(contentType); ct != "" {
		w.ContentType = ct
	}
	w.ChunkSize = 0
	w.Metadata = map[string]string{
		"uploadedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// ListObjectPaths lists object paths under the given prefix.
// Use this for product deletion cascade or cleanup jobs.
func (r *ProductImageRepositoryGCS) ListObjectPaths(ctx context.Context, prefix string) ([]string, error) {
	bh, err := r.bucket()
	if err != nil {
		return nil, err
	}

	it := bh.Objects(ctx, &storage.Query{
		Prefix: strings.TrimSpace(prefix),
	})

	var out []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		if attrs == nil || strings.TrimSpace(attrs.Name) == "" {
			continue
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

// DeleteByPrefix deletes all objects under prefix.
// Cascade for product deletion: prefix = "products/{productId}/".
func (r *ProductImageRepositoryGCS) DeleteByPrefix(ctx context.Context, prefix string) error {
	bh, err := r.bucket()
	if err != nil {
		return err
	}
	paths, err := r.ListObjectPaths(ctx, prefix)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := bh.Object(p).Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
			return err
		}
	}
	return nil
}
