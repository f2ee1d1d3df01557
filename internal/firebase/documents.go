// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/toeirei/createch/core/identity"
)

// DocumentStore writes documents through a Firestore client.
type DocumentStore struct {
	client *firestore.Client
}

var _ identity.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore wraps client.
func NewDocumentStore(client *firestore.Client) *DocumentStore {
	return &DocumentStore{client: client}
}

// SetDocument replaces the document at path with data.
func (d *DocumentStore) SetDocument(ctx context.Context, path string, data any) error {
	ref := d.client.Doc(path)
	if ref == nil {
		return fmt.Errorf("invalid document path %q", path)
	}
	if _, err := ref.Set(ctx, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Close releases the Firestore client.
func (d *DocumentStore) Close() error {
	return d.client.Close()
}
