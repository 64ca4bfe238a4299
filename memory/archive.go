package memory

import (
	"context"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConversationRecord is a finished assistant conversation kept for follow-up
// by the counselling team.
type ConversationRecord struct {
	ID         string `bson:"_id"`
	SessionID  string `bson:"sessionId"`
	Turns      []Turn `bson:"turns"`
	ArchivedOn int64  `bson:"archivedOn"`
}

func (m ConversationRecord) Id() string {
	if len(m.ID) == 0 {
		return uuid.New().String()
	}
	return m.ID
}

func (m ConversationRecord) CollectionName() string {
	return "assistant_conversations"
}

// ConversationArchive stores discarded transcripts. A nil collection turns
// every operation into a no-op.
type ConversationArchive struct {
	collection   odm.OdmCollectionInterface[ConversationRecord]
	maxExchanges int
}

// NewConversationArchive keeps at most maxExchanges user turns (and the turns
// that follow them) per record. maxExchanges <= 0 keeps everything.
func NewConversationArchive(collection odm.OdmCollectionInterface[ConversationRecord], maxExchanges int) *ConversationArchive {
	return &ConversationArchive{
		collection:   collection,
		maxExchanges: maxExchanges,
	}
}

func (a *ConversationArchive) Enabled() bool {
	return a != nil && a.collection != nil
}

// Save archives turns under sessionID.
func (a *ConversationArchive) Save(ctx context.Context, sessionID string, turns []Turn) error {
	if !a.Enabled() {
		return nil
	}

	record := ConversationRecord{
		ID:         uuid.Must(uuid.NewV7()).String(),
		SessionID:  sessionID,
		Turns:      a.trim(turns),
		ArchivedOn: time.Now().UnixMilli(),
	}

	_, err := async.Await(a.collection.Save(ctx, record))
	if err != nil {
		logger.Error("Failed to archive conversation", zap.String("sessionId", sessionID), zap.Error(err))
		return err
	}

	return nil
}

// trim keeps the last maxExchanges user turns and everything after them.
func (a *ConversationArchive) trim(turns []Turn) []Turn {
	if a.maxExchanges <= 0 {
		return append([]Turn(nil), turns...)
	}

	usersSeen := 0
	start := 0
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			usersSeen++
			if usersSeen == a.maxExchanges {
				start = i
				break
			}
		}
	}

	return append([]Turn(nil), turns[start:]...)
}
