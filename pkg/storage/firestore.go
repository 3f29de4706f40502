package storage

import (
	"context"
	"encoding/base64"
	"fmt"

	firestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore is an Adapter backed by a Firestore collection of
// content-addressed documents, for SDK deployments running on Firebase
// infrastructure alongside the rest of a project's backend.
type Firestore struct {
	client     *firestore.Client
	collection string
}

type firestoreDoc struct {
	ContentB64 string `firestore:"contentB64"`
}

// NewFirestore initializes a Firebase app and Firestore client for the
// given project, authenticated via the service account credentials file at
// credentialsPath.
func NewFirestore(ctx context.Context, projectID, credentialsPath, collection string) (*Firestore, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firestore client: %w", err)
	}
	return &Firestore{client: client, collection: collection}, nil
}

func (f *Firestore) Put(ctx context.Context, key string, content []byte) error {
	if err := verifyKey(key, content); err != nil {
		return err
	}
	_, err := f.client.Collection(f.collection).Doc(key).Set(ctx, firestoreDoc{
		ContentB64: base64.StdEncoding.EncodeToString(content),
	})
	return err
}

func (f *Firestore) Get(ctx context.Context, key string) ([]byte, error) {
	snap, err := f.client.Collection(f.collection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var doc firestoreDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode firestore document: %w", err)
	}
	return base64.StdEncoding.DecodeString(doc.ContentB64)
}

func (f *Firestore) Delete(ctx context.Context, key string) error {
	_, err := f.client.Collection(f.collection).Doc(key).Delete(ctx)
	return err
}

func (f *Firestore) Exists(ctx context.Context, key string) (bool, error) {
	snap, err := f.client.Collection(f.collection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return snap.Exists(), nil
}

// Close releases the underlying Firestore client.
func (f *Firestore) Close() error { return f.client.Close() }
