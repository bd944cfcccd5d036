// Package telegram implements webhook decode and outbound send for the
// Telegram Bot API (spec.md §4.12), grounded on
// original_source/crates/domain_telegram_bot and
// original_source/crates/feature_telegram_bot/src/bot.rs.
package telegram

// Update is https://core.telegram.org/bots/api/#update, trimmed to the
// fields this service reads.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// Message is https://core.telegram.org/bots/api/#message.
type Message struct {
	MessageID int64   `json:"message_id"`
	From      *User   `json:"from"`
	Chat      Chat    `json:"chat"`
	Text      *string `json:"text"`
}

// CallbackQuery is https://core.telegram.org/bots/api/#callbackquery.
type CallbackQuery struct {
	ID      string   `json:"id"`
	Message *Message `json:"message"`
	Data    *string  `json:"data"`
}

// User is https://core.telegram.org/bots/api/#user.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
}

// ChatType is the closed set of Telegram chat kinds.
type ChatType string

const (
	ChatPrivate    ChatType = "private"
	ChatGroup      ChatType = "group"
	ChatSuperGroup ChatType = "supergroup"
	ChatChannel    ChatType = "channel"
	ChatUnknown    ChatType = ""
)

// Chat is https://core.telegram.org/bots/api/#chat.
type Chat struct {
	ID    int64    `json:"id"`
	Type  ChatType `json:"type"`
	Title *string  `json:"title"`
}

// InlineKeyboardMarkup is https://core.telegram.org/bots/api/#inlinekeyboardmarkup.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton is https://core.telegram.org/bots/api/#inlinekeyboardbutton.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// ReplyKeyboardRemove is https://core.telegram.org/bots/api/#replykeyboardremove.
type ReplyKeyboardRemove struct {
	RemoveKeyboard bool `json:"remove_keyboard"`
}
