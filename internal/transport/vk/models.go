// Package vk implements webhook decode and outbound send for the VK
// Callback API (spec.md §4.13), grounded on
// original_source/crates/domain_vk_bot and
// original_source/crates/feature_vk_bot/src/bot.rs.
package vk

// CallbackRequest is https://dev.vk.com/api/callback/getting-started,
// trimmed to the fields this service reads.
type CallbackRequest struct {
	Type    CallbackType     `json:"type"`
	GroupID int64            `json:"group_id"`
	Secret  *string          `json:"secret"`
	Object  *NewMessageObject `json:"object"`
}

// CallbackType is the closed set of VK Callback API event types this
// service understands.
type CallbackType string

const (
	CallbackConfirmation CallbackType = "confirmation"
	CallbackMessageNew   CallbackType = "message_new"
	CallbackUnknown      CallbackType = ""
)

// NewMessageObject wraps the message_new event payload.
type NewMessageObject struct {
	Message    Message    `json:"message"`
	ClientInfo ClientInfo `json:"client_info"`
}

// Message is the VK message object embedded in a message_new callback.
type Message struct {
	ID      int64   `json:"id"`
	Date    int64   `json:"date"`
	PeerID  int64   `json:"peer_id"`
	FromID  int64   `json:"from_id"`
	Text    *string `json:"text"`
	Payload *string `json:"payload"`
}

// PeerType classifies a Message.PeerID per VK's peer ID ranges.
type PeerType int

const (
	PeerUser PeerType = iota
	PeerGroupChat
	PeerCommunity
)

// PeerType reports whether m targets a user, a group chat, or a community.
func (m Message) PeerType() PeerType {
	switch {
	case m.PeerID > 2000000000:
		return PeerGroupChat
	case m.PeerID < 0:
		return PeerCommunity
	default:
		return PeerUser
	}
}

// ClientInfo describes the capabilities of the client that sent the message.
type ClientInfo struct {
	ButtonActions  []ButtonActionType `json:"button_actions"`
	Keyboard       bool               `json:"keyboard"`
	InlineKeyboard bool               `json:"inline_keyboard"`
	Carousel       bool               `json:"carousel"`
}

// ButtonActionType is the closed set of VK keyboard button action kinds.
type ButtonActionType string

const (
	ButtonActionText              ButtonActionType = "text"
	ButtonActionVkPay             ButtonActionType = "vkpay"
	ButtonActionOpenApp           ButtonActionType = "open_app"
	ButtonActionLocation          ButtonActionType = "location"
	ButtonActionOpenLink          ButtonActionType = "open_link"
	ButtonActionOpenPhoto         ButtonActionType = "open_photo"
	ButtonActionCallback          ButtonActionType = "callback"
	ButtonActionIntentSubscribe   ButtonActionType = "intent_subscribe"
	ButtonActionIntentUnsubscribe ButtonActionType = "intent_unsubscribe"
	ButtonActionUnknown           ButtonActionType = "unknown"
)

// Keyboard is VK's outbound keyboard attachment shape.
type Keyboard struct {
	Buttons  [][]KeyboardButton `json:"buttons"`
	Inline   bool               `json:"inline"`
	OneTime  bool               `json:"one_time"`
}

// KeyboardButton is a single button within a Keyboard row.
type KeyboardButton struct {
	Action KeyboardButtonAction `json:"action"`
	Color  *string              `json:"color"`
}

// KeyboardButtonAction is the action fired by a KeyboardButton.
type KeyboardButtonAction struct {
	Type    ButtonActionType `json:"type"`
	Label   string           `json:"label"`
	Payload *string          `json:"payload"`
}
