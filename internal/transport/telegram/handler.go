package telegram

import (
	"context"
	"crypto/subtle"

	"github.com/mpeix-go/schedule-backend/internal/dialogue"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// Dialogue is the subset of dialogue.Service this handler depends on.
type Dialogue interface {
	GenerateReply(ctx context.Context, id dialogue.PlatformID, text string) (dialogue.Reply, error)
}

// Sender is the subset of Client this handler depends on.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard interface{}) error
}

// Handler processes decoded Telegram updates into replies (spec.md §4.12,
// grounded on original_source/crates/feature_telegram_bot/src/bot.rs).
type Handler struct {
	Secret   string
	Dialogue Dialogue
	Sender   Sender
}

// HandleUpdate validates secret against h.Secret, resolves a reply for the
// update's text, renders it, and sends it back to the originating chat.
func (h *Handler) HandleUpdate(ctx context.Context, update Update, secret string) error {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.Secret)) != 1 {
		return apperrors.NewUser("invalid telegram webhook secret")
	}

	text, message := extractTextAndMessage(update)
	if message == nil {
		return nil
	}

	var reply dialogue.Reply
	if text != nil {
		r, err := h.Dialogue.GenerateReply(ctx, dialogue.PlatformID{Platform: dialogue.PlatformTelegram, ChatID: message.Chat.ID}, *text)
		if err != nil {
			return apperrors.Wrap(err, "generate telegram reply")
		}
		reply = r
	} else {
		reply = dialogue.Reply{Kind: dialogue.ReplyUnknownCommand}
	}

	rendered := dialogue.Render(reply, dialogue.RenderTelegram)
	keyboard := keyboardFor(reply)
	return h.Sender.SendMessage(ctx, message.Chat.ID, rendered, keyboard)
}

func extractTextAndMessage(update Update) (*string, *Message) {
	if update.CallbackQuery != nil {
		return update.CallbackQuery.Data, update.CallbackQuery.Message
	}
	if update.Message != nil {
		return update.Message.Text, update.Message
	}
	return nil, nil
}

// keyboardFor attaches an inline keyboard of search-result buttons for
// ReplyScheduleSearchResults, an empty (removed) keyboard otherwise.
func keyboardFor(reply dialogue.Reply) interface{} {
	if reply.Kind != dialogue.ReplyScheduleSearchResults {
		return ReplyKeyboardRemove{RemoveKeyboard: true}
	}
	rows := make([][]InlineKeyboardButton, 0, len(reply.SearchResults))
	for _, name := range reply.SearchResults {
		rows = append(rows, []InlineKeyboardButton{{Text: name, CallbackData: name}})
	}
	return InlineKeyboardMarkup{InlineKeyboard: rows}
}
