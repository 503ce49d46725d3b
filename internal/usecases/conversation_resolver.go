package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"sats-chat.backend/internal/domain/entities"
	domainerrors "sats-chat.backend/internal/domain/errors"
	domainRepos "sats-chat.backend/internal/domain/repositories"
	"sats-chat.backend/pkg/utils"
)

// resolveOrCreateConversation finds the 1:1 conversation between two
// users, honoring an explicitly supplied id, and lazily creates one with
// the initiator as admin and the counterpart as member. The lookup tries
// both participant orderings before creating.
func resolveOrCreateConversation(ctx context.Context, repo domainRepos.ConversationRepository, conversationID *uuid.UUID, initiatorID, counterpartID uuid.UUID) (*entities.Conversation, error) {
	if conversationID != nil {
		return repo.GetByID(ctx, *conversationID)
	}

	conversation, err := repo.GetByParticipants(ctx, initiatorID, counterpartID)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	conversation = &entities.Conversation{
		ID:            utils.GenerateUUIDv7(),
		InitiatorID:   initiatorID,
		CounterpartID: counterpartID,
	}
	participants := []*entities.Participant{
		{
			ID:             utils.GenerateUUIDv7(),
			ConversationID: conversation.ID,
			UserID:         initiatorID,
			Role:           entities.ParticipantRoleAdmin,
		},
		{
			ID:             utils.GenerateUUIDv7(),
			ConversationID: conversation.ID,
			UserID:         counterpartID,
			Role:           entities.ParticipantRoleMember,
		},
	}
	if err := repo.Create(ctx, conversation, participants); err != nil {
		return nil, err
	}
	return conversation, nil
}
