package service

import (
	"context"
	"fmt"

	"curator/models"

	log "github.com/sirupsen/logrus"
)

type reactionRoleService struct {
	uowFactory UnitOfWorkFactory
	gateway    ChatGateway
}

// NewReactionRoleService creates a new reaction role service
func NewReactionRoleService(uowFactory UnitOfWorkFactory, gateway ChatGateway) ReactionRoleService {
	return &reactionRoleService{
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// CreateBinding registers a new reaction role binding
func (s *reactionRoleService) CreateBinding(ctx context.Context, binding *models.ReactionRole) error {
	if binding.MessageID == 0 || binding.Emoji == "" || binding.RoleID == 0 {
		return fmt.Errorf("binding requires a message, emoji and role")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ReactionRoleRepository().Create(ctx, binding); err != nil {
		return fmt.Errorf("failed to create binding: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListBindings returns all bindings on a message
func (s *reactionRoleService) ListBindings(ctx context.Context, messageID int64) ([]*models.ReactionRole, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bindings, err := uow.ReactionRoleRepository().GetByMessage(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bindings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return bindings, nil
}

// OnReaction grants the bound role on add and revokes it on remove. Both
// directions are idempotent: if the member is already in the target state
// the event is a skip. Platform failures (missing role, missing member,
// permissions) are non-fatal skips; the next real event re-syncs.
func (s *reactionRoleService) OnReaction(ctx context.Context, ev ReactionEvent) (models.Outcome, bool, error) {
	if ev.Kind == EventKindPress {
		return models.Skipped("bindings do not own button presses"), false, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	binding, err := uow.ReactionRoleRepository().GetByMessageAndEmoji(ctx, ev.MessageID, ev.Emoji)
	if err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to look up binding: %w", err)
	}
	if binding == nil {
		// The message may still belong to this mechanism under another
		// emoji; claim it so the event does not leak to other mechanisms.
		owned, err := uow.ReactionRoleRepository().ExistsForMessage(ctx, ev.MessageID)
		if err != nil {
			return models.Outcome{}, false, fmt.Errorf("failed to check message ownership: %w", err)
		}
		if !owned {
			return models.Skipped("no binding for message"), false, nil
		}
		return models.Skipped("emoji not bound on this message"), true, nil
	}

	if err := uow.Commit(); err != nil {
		return models.Outcome{}, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	held, err := s.gateway.MemberHasRole(ctx, binding.GuildID, ev.ActorID, binding.RoleID)
	if err != nil {
		log.WithFields(log.Fields{
			"guildID": binding.GuildID,
			"actorID": ev.ActorID,
			"roleID":  binding.RoleID,
		}).WithError(err).Warn("Could not check member role, skipping toggle")
		return models.Skipped("member lookup failed"), true, nil
	}

	switch ev.Kind {
	case EventKindAdd:
		if held {
			return models.Skipped("role already granted"), true, nil
		}
		if err := s.gateway.GrantRole(ctx, binding.GuildID, ev.ActorID, binding.RoleID); err != nil {
			log.WithFields(log.Fields{
				"guildID": binding.GuildID,
				"actorID": ev.ActorID,
				"roleID":  binding.RoleID,
			}).WithError(err).Warn("Could not grant role, skipping")
			return models.Skipped("grant failed"), true, nil
		}
		return models.Applied("role granted"), true, nil

	case EventKindRemove:
		if !held {
			return models.Skipped("role already revoked"), true, nil
		}
		if err := s.gateway.RevokeRole(ctx, binding.GuildID, ev.ActorID, binding.RoleID); err != nil {
			log.WithFields(log.Fields{
				"guildID": binding.GuildID,
				"actorID": ev.ActorID,
				"roleID":  binding.RoleID,
			}).WithError(err).Warn("Could not revoke role, skipping")
			return models.Skipped("revoke failed"), true, nil
		}
		return models.Applied("role revoked"), true, nil
	}

	return models.Skipped("unknown event kind"), true, nil
}
