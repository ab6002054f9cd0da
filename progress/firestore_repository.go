package progress

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultProgressCollection  = "progress"
	defaultFlashcardCollection = "flashcards"
)

// FirestoreConfig tailors the collection layout; the zero value uses the
// defaults.
type FirestoreConfig struct {
	ProgressCollection  string
	FlashcardCollection string
}

type firestoreRepository struct {
	client     *firestore.Client
	progress   string
	flashcards string
}

// NewFirestoreRepository instantiates a Firestore-backed repository. Progress
// records live one document per user, keyed by user id; flashcard decks live
// in their own collection owned by the flashcard service and are only read
// here to derive the created-cards count.
func NewFirestoreRepository(client *firestore.Client, cfg FirestoreConfig) Repository {
	if cfg.ProgressCollection == "" {
		cfg.ProgressCollection = defaultProgressCollection
	}
	if cfg.FlashcardCollection == "" {
		cfg.FlashcardCollection = defaultFlashcardCollection
	}
	return &firestoreRepository{
		client:     client,
		progress:   cfg.ProgressCollection,
		flashcards: cfg.FlashcardCollection,
	}
}

func (r *firestoreRepository) GetProgress(ctx context.Context, userID string) (Record, error) {
	doc, err := r.client.Collection(r.progress).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}

	var record Record
	if err := doc.DataTo(&record); err != nil {
		return Record{}, fmt.Errorf("unmarshal progress: %w", err)
	}
	record.UserID = userID
	return record, nil
}

func (r *firestoreRepository) SaveProgress(ctx context.Context, record Record) error {
	_, err := r.client.Collection(r.progress).Doc(record.UserID).Set(ctx, record)
	return err
}

func (r *firestoreRepository) CountFlashcards(ctx context.Context, userID string) (int, error) {
	iter := r.client.Collection(r.flashcards).
		Where("userId", "==", userID).
		Documents(ctx)
	defer iter.Stop()

	total := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("list flashcard decks: %w", err)
		}

		var deck struct {
			Flashcards []struct {
				Question string `firestore:"question"`
				Answer   string `firestore:"answer"`
			} `firestore:"flashcards"`
		}
		if err := doc.DataTo(&deck); err != nil {
			continue // Skip invalid decks
		}
		total += len(deck.Flashcards)
	}

	return total, nil
}
