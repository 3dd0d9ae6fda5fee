package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tutor-backend-go/internal/models"
)

const conversationsCollection = "conversations"

type firestoreConversationRepository struct {
	client *firestore.Client
}

// NewFirestoreConversationRepository creates a ConversationRepository backed by Firestore.
// Conversations live under users/{uid}/conversations/{conversationId}.
func NewFirestoreConversationRepository(client *firestore.Client) ConversationRepository {
	if client == nil {
		panic("Firestore client is not initialized for ConversationRepository")
	}
	return &firestoreConversationRepository{client: client}
}

func (r *firestoreConversationRepository) userRef(userID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID)
}

func (r *firestoreConversationRepository) conversationRef(userID, conversationID string) *firestore.DocumentRef {
	return r.userRef(userID).Collection(conversationsCollection).Doc(conversationID)
}

// Get returns the stored conversation. A missing document yields an empty history.
func (r *firestoreConversationRepository) Get(ctx context.Context, userID, conversationID string) (*models.Conversation, error) {
	if userID == "" || conversationID == "" {
		return nil, errors.New("userID and conversationID are required for Get operation")
	}
	snap, err := r.conversationRef(userID, conversationID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &models.Conversation{ID: conversationID, History: []models.Turn{}}, nil
		}
		return nil, fmt.Errorf("failed to get conversation '%s' for user '%s': %w", conversationID, userID, err)
	}
	return decodeConversation(snap)
}

// SaveExchange appends both turns and optionally bumps the quota counter in a single transaction.
// The history is rewritten rather than extended with ArrayUnion, which would
// silently drop a turn identical to one already stored.
func (r *firestoreConversationRepository) SaveExchange(ctx context.Context, userID, conversationID string, userTurn, modelTurn models.Turn, countTowardsQuota bool) error {
	if userID == "" || conversationID == "" {
		return errors.New("userID and conversationID are required for SaveExchange operation")
	}
	convRef := r.conversationRef(userID, conversationID)
	userRef := r.userRef(userID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		history := []models.Turn{}
		snap, err := tx.Get(convRef)
		switch {
		case err == nil:
			conv, err := decodeConversation(snap)
			if err != nil {
				return err
			}
			history = conv.History
		case status.Code(err) == codes.NotFound:
		default:
			return err
		}

		history = append(history, userTurn, modelTurn)
		if err := tx.Set(convRef, map[string]interface{}{
			"history":   encodeHistory(history),
			"updatedAt": firestore.ServerTimestamp,
		}, firestore.MergeAll); err != nil {
			return err
		}

		if countTowardsQuota {
			return tx.Set(userRef, map[string]interface{}{
				"messageCount": firestore.Increment(1),
			}, firestore.MergeAll)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save exchange for conversation '%s' of user '%s': %w", conversationID, userID, err)
	}
	return nil
}

func decodeConversation(snap *firestore.DocumentSnapshot) (*models.Conversation, error) {
	var conv models.Conversation
	if err := snap.DataTo(&conv); err != nil {
		return nil, fmt.Errorf("failed to decode conversation '%s': %w", snap.Ref.ID, err)
	}
	conv.ID = snap.Ref.ID
	if conv.History == nil {
		conv.History = []models.Turn{}
	}
	return &conv, nil
}

// encodeHistory renders turns in their stored shape. A user turn always
// carries an imageUrl part, null when there was no image.
func encodeHistory(turns []models.Turn) []interface{} {
	out := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		if t.Role == models.RoleUser {
			var imageURL interface{}
			if u := t.ImageURL(); u != "" {
				imageURL = u
			}
			out = append(out, map[string]interface{}{
				"role": string(t.Role),
				"parts": []interface{}{
					map[string]interface{}{"text": t.Text()},
					map[string]interface{}{"imageUrl": imageURL},
				},
			})
			continue
		}
		out = append(out, map[string]interface{}{
			"role":  string(t.Role),
			"parts": []interface{}{map[string]interface{}{"text": t.Text()}},
		})
	}
	return out
}
