package vk

import (
	"context"
	"crypto/subtle"
	"net/url"

	"github.com/mpeix-go/schedule-backend/internal/dialogue"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// Dialogue is the subset of dialogue.Service this handler depends on.
type Dialogue interface {
	GenerateReply(ctx context.Context, id dialogue.PlatformID, text string) (dialogue.Reply, error)
}

// Sender is the subset of Client this handler depends on.
type Sender interface {
	SendMessage(ctx context.Context, text string, peerID int64, additionalQuery url.Values) error
}

// Handler processes decoded VK callbacks into replies (spec.md §4.13),
// grounded on original_source/crates/feature_vk_bot/src/bot.rs.
//
// ConfirmationCode is echoed back verbatim for CallbackConfirmation events
// as VK's community-events registration requires.
type Handler struct {
	Secret           string
	ConfirmationCode string
	Dialogue         Dialogue
	Sender           Sender
}

// HandleCallback validates callback.Secret against h.Secret and dispatches
// on callback.Type. It returns the plain-text body the VK Callback API
// expects in response (the confirmation code, or "ok" once a message has
// been replied to); an empty string with a non-nil error means the caller
// should surface that error instead of writing a body.
func (h *Handler) HandleCallback(ctx context.Context, callback CallbackRequest) (string, error) {
	if !secretMatches(callback.Secret, h.Secret) {
		return "", apperrors.NewUser("invalid vk callback secret")
	}

	switch callback.Type {
	case CallbackConfirmation:
		return h.ConfirmationCode, nil
	case CallbackMessageNew:
		if callback.Object == nil {
			return "", apperrors.NewInternal("vk message_new callback missing object", nil)
		}
		if err := h.handleNewMessage(ctx, callback.Object.Message); err != nil {
			return "", err
		}
		return "ok", nil
	default:
		return "", apperrors.NewInternal("unsupported vk callback type", nil)
	}
}

func (h *Handler) handleNewMessage(ctx context.Context, message Message) error {
	text := ""
	if message.Text != nil {
		text = *message.Text
	}

	reply, err := h.Dialogue.GenerateReply(ctx, dialogue.PlatformID{Platform: dialogue.PlatformVK, ChatID: message.PeerID}, text)
	if err != nil {
		return apperrors.Wrap(err, "generate vk reply")
	}

	rendered := dialogue.Render(reply, dialogue.RenderVK)
	additional, err := keyboardQueryFor(reply)
	if err != nil {
		return err
	}
	return h.Sender.SendMessage(ctx, rendered, message.PeerID, additional)
}

func secretMatches(got *string, want string) bool {
	if want == "" {
		return got == nil
	}
	if got == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*got), []byte(want)) == 1
}

func keyboardQueryFor(reply dialogue.Reply) (url.Values, error) {
	if reply.Kind != dialogue.ReplyScheduleSearchResults {
		return url.Values{"keyboard": {`{"buttons":[],"inline":false,"one_time":true}`}}, nil
	}
	rows := make([][]KeyboardButton, 0, len(reply.SearchResults))
	for _, name := range reply.SearchResults {
		rows = append(rows, []KeyboardButton{{Action: KeyboardButtonAction{Type: ButtonActionText, Label: name}}})
	}
	return KeyboardQuery(Keyboard{Buttons: rows, Inline: true, OneTime: false})
}
