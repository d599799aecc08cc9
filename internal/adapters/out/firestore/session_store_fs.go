// backend/internal/adapters/out/firestore/session_store_fs.go
package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SessionStoreFS implements session.Store using Firestore.
//
// Collection design:
// - collection: sessions
// - docId: sessionID
// - one field per slot key; values stored as JSON strings (opaque to the store)
// - expiresAt: for Firestore TTL, refreshed on each write
//
// Fixed slot per key means a rewrite overwrites, never appends.
type SessionStoreFS struct {
	Client *firestore.Client
}

// DefaultSessionTTL bounds how long a handoff outlives the browsing session.
const DefaultSessionTTL = 24 * time.Hour

func NewSessionStoreFS(client *firestore.Client) *SessionStoreFS {
	return &SessionStoreFS{Client: client}
}

func (s *SessionStoreFS) col() *firestore.CollectionRef {
	return s.Client.Collection("sessions")
}

func (s *SessionStoreFS) Set(ctx context.Context, sessionID, key string, value any) error {
	if s == nil || s.Client == nil {
		return errors.New("session_store_fs: firestore client is nil")
	}
	sid := strings.TrimSpace(sessionID)
	k := strings.TrimSpace(key)
	if sid == "" || k == "" {
		return errors.New("session_store_fs: sessionID and key are required")
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	_, err = s.col().Doc(sid).Set(ctx, map[string]any{
		k:           string(b),
		"updatedAt": time.Now().UTC(),
		"expiresAt": time.Now().UTC().Add(DefaultSessionTTL),
	}, firestore.MergeAll)
	return err
}

func (s *SessionStoreFS) Get(ctx context.Context, sessionID, key string, dest any) (bool, error) {
	if s == nil || s.Client == nil {
		return false, errors.New("session_store_fs: firestore client is nil")
	}
	sid := strings.TrimSpace(sessionID)
	k := strings.TrimSpace(key)
	if sid == "" || k == "" {
		return false, errors.New("session_store_fs: sessionID and key are required")
	}

	snap, err := s.col().Doc(sid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}

	raw, ok := snap.Data()[k]
	if !ok {
		return false, nil
	}
	str, ok := raw.(string)
	if !ok || strings.TrimSpace(str) == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(str), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SessionStoreFS) Delete(ctx context.Context, sessionID, key string) error {
	if s == nil || s.Client == nil {
		return errors.New("session_store_fs: firestore client is nil")
	}
	sid := strings.TrimSpace(sessionID)
	k := strings.TrimSpace(key)
	if sid == "" || k == "" {
		return errors.New("session_store_fs: sessionID and key are required")
	}

	_, err := s.col().Doc(sid).Update(ctx, []firestore.Update{
		{Path: k, Value: firestore.Delete},
	})
	if status.Code(err) == codes.NotFound {
		return nil
	}
	return err
}
