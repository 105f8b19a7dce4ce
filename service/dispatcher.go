package service

import (
	"context"
	"fmt"
	"strings"

	"curator/models"

	log "github.com/sirupsen/logrus"
)

// GiveawayButtonNamespace prefixes the custom IDs of giveaway entry buttons
const GiveawayButtonNamespace = "giveaway"

// BuildCustomID assembles a component custom ID from a mechanism namespace
// and its parts
func BuildCustomID(namespace string, parts ...string) string {
	return strings.Join(append([]string{namespace}, parts...), ":")
}

type reactionMechanism struct {
	name    string
	handler func(ctx context.Context, ev ReactionEvent) (models.Outcome, bool, error)
}

type buttonHandler func(ctx context.Context, ev ComponentEvent) (models.Outcome, bool, error)

// Dispatcher routes inbound reaction and button events to the single
// mechanism owning the message. Ownership is keyed by message ID, never by
// emoji alone: the same emoji may serve different mechanisms on different
// messages. An event no mechanism claims is a no-op, not an error.
type Dispatcher struct {
	reactionMechanisms []reactionMechanism
	buttonRoutes       map[string]buttonHandler
}

// NewDispatcher creates a dispatcher over the four mechanisms. Reaction
// ownership is probed in a fixed priority order; button routes are a typed
// table keyed by custom-ID namespace, resolved here once rather than
// re-parsed per event.
func NewDispatcher(
	reactionRoles ReactionRoleService,
	polls PollService,
	suggestions SuggestionService,
	giveaways GiveawayService,
) *Dispatcher {
	return &Dispatcher{
		reactionMechanisms: []reactionMechanism{
			{name: "reaction_role", handler: reactionRoles.OnReaction},
			{name: "poll", handler: polls.OnReaction},
			{name: "suggestion", handler: suggestions.OnReaction},
		},
		buttonRoutes: map[string]buttonHandler{
			GiveawayButtonNamespace: giveaways.OnButton,
		},
	}
}

// DispatchReaction routes a reaction add/remove to its owning mechanism
func (d *Dispatcher) DispatchReaction(ctx context.Context, ev ReactionEvent) (models.Outcome, error) {
	for _, mechanism := range d.reactionMechanisms {
		outcome, claimed, err := mechanism.handler(ctx, ev)
		if err != nil {
			return models.Outcome{}, fmt.Errorf("%s mechanism failed: %w", mechanism.name, err)
		}
		if claimed {
			log.WithFields(log.Fields{
				"mechanism": mechanism.name,
				"messageID": ev.MessageID,
				"emoji":     ev.Emoji,
				"kind":      ev.Kind,
				"outcome":   outcome.Status,
			}).Debug("Reaction event dispatched")
			return outcome, nil
		}
	}

	return models.Skipped("no mechanism owns message"), nil
}

// DispatchComponent routes a button press by its custom-ID namespace
func (d *Dispatcher) DispatchComponent(ctx context.Context, ev ComponentEvent) (models.Outcome, error) {
	namespace, _, _ := strings.Cut(ev.CustomID, ":")

	handler, ok := d.buttonRoutes[namespace]
	if !ok {
		return models.Skipped("no mechanism registered for component"), nil
	}

	outcome, claimed, err := handler(ctx, ev)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("%s mechanism failed: %w", namespace, err)
	}
	if !claimed {
		return models.Skipped("no mechanism owns message"), nil
	}

	log.WithFields(log.Fields{
		"mechanism": namespace,
		"messageID": ev.MessageID,
		"customID":  ev.CustomID,
		"outcome":   outcome.Status,
	}).Debug("Component event dispatched")
	return outcome, nil
}
