package models

import "time"

// Chat is a private conversation between a trip's creator and one
// companion. (trip, creator, companion) is unique.
type Chat struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TripID      uint      `gorm:"not null;uniqueIndex:idx_chats_trip_pair" json:"trip_id"`
	Trip        *Trip     `gorm:"foreignKey:TripID" json:"-"`
	CreatorID   uint      `gorm:"not null;uniqueIndex:idx_chats_trip_pair;index" json:"creator_id"`
	Creator     *User     `gorm:"foreignKey:CreatorID" json:"-"`
	CompanionID uint      `gorm:"not null;uniqueIndex:idx_chats_trip_pair;index" json:"companion_id"`
	Companion   *User     `gorm:"foreignKey:CompanionID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasMember reports whether userID is one of the two participants.
func (c Chat) HasMember(userID uint) bool {
	return c.CreatorID == userID || c.CompanionID == userID
}

// Room is the Socket.IO room that receives this chat's events.
func (c Chat) Room() string {
	return ChatRoom(c.ID)
}

type Message struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ChatID   uint      `gorm:"not null;index:idx_messages_chat_sent" json:"chat_id"`
	Chat     *Chat     `gorm:"foreignKey:ChatID" json:"-"`
	SenderID uint      `gorm:"not null;index" json:"sender_id"`
	Sender   *User     `gorm:"foreignKey:SenderID" json:"-"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	SentAt   time.Time `gorm:"not null;index:idx_messages_chat_sent" json:"sent_at"`
	IsRead   bool      `gorm:"not null;default:false" json:"is_read"`
}

// MessageView is a message with sender display data, as returned by the
// REST API and pushed over the socket.
type MessageView struct {
	ID           uint      `json:"id"`
	ChatID       uint      `json:"chat_id"`
	Content      string    `json:"content"`
	SentAt       time.Time `json:"sent_at"`
	CreatedAt    time.Time `gorm:"-" json:"created_at"`
	SenderID     uint      `json:"sender_id"`
	SenderName   string    `json:"sender_name"`
	SenderAvatar string    `json:"sender_avatar"`
	IsRead       bool      `json:"is_read"`
}

// ChatSummary is one row of the caller's chat list.
type ChatSummary struct {
	ChatID          uint      `json:"chat_id"`
	TripID          uint      `json:"trip_id"`
	CreatorID       uint      `json:"creator_id"`
	CompanionID     uint      `json:"companion_id"`
	FromCityID      uint      `json:"from_city_id"`
	ToCityID        uint      `json:"to_city_id"`
	FromCity        string    `gorm:"column:from_city" json:"from_city"`
	ToCity          string    `gorm:"column:to_city" json:"to_city"`
	DateFrom        time.Time `json:"date_from"`
	DateTo          time.Time `json:"date_to"`
	CreatorName     string    `json:"creator_name"`
	CreatorAvatar   string    `json:"creator_avatar"`
	CompanionName   string    `json:"companion_name"`
	CompanionAvatar string    `json:"companion_avatar"`
	CreatedAt       time.Time `json:"created_at"`

	LastMessage     *string    `gorm:"-" json:"last_message"`
	LastMessageTime *time.Time `gorm:"-" json:"last_message_time"`
	UnreadCount     int64      `gorm:"-" json:"unread_count"`
}
