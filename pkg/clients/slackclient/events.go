package slackclient

import (
	"encoding/json"
	"net/http"

	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"

	"github.com/TenaciousPub/Challenge/pkg/core/model"
	"github.com/TenaciousPub/Challenge/pkg/core/services"
)

// HandleEvents serves POST /slack/events: URL verification and reaction votes
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	body, status := h.verifiedBody(r)
	if status != http.StatusOK {
		h.logger.Warn("Rejected event callback", zap.Int("status", status))
		w.WriteHeader(status)
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(challenge.Challenge))
		return

	case slackevents.CallbackEvent:
		switch ev := event.InnerEvent.Data.(type) {
		case *slackevents.ReactionAddedEvent:
			h.applyReaction(r, ev.User, ev.Reaction, ev.Item.Channel, ev.Item.Timestamp, true)
		case *slackevents.ReactionRemovedEvent:
			h.applyReaction(r, ev.User, ev.Reaction, ev.Item.Channel, ev.Item.Timestamp, false)
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) applyReaction(r *http.Request, userID, reaction, channelID, ts string, added bool) {
	vote, ok := voteForReaction(reaction)
	if !ok {
		return
	}
	requestID, ok := h.book.RequestForMessage(MessageRef(channelID, ts))
	if !ok {
		return
	}

	err := services.ApplyReaction(r.Context(), h.book, requestID, userID, model.VoteValue(vote), added)
	if err != nil {
		h.logger.Debug("Ignored reaction vote",
			zap.String("request_id", requestID),
			zap.String("user_id", userID),
			zap.String("reaction", reaction),
			zap.Error(err))
		return
	}
	h.logger.Info("Reaction vote applied",
		zap.String("request_id", requestID),
		zap.String("user_id", userID),
		zap.String("vote", vote),
		zap.Bool("added", added))
}
