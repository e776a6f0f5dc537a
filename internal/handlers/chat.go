package handlers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/metrics"
	"github.com/nneonya/Travel-app/internal/models"
	"github.com/nneonya/Travel-app/internal/services"
	apperrors "github.com/nneonya/Travel-app/pkg/errors"
	"github.com/nneonya/Travel-app/pkg/logger"
	"github.com/nneonya/Travel-app/pkg/utils"
	"gorm.io/gorm"
)

const chatSummaryColumns = `chats.id AS chat_id, chats.trip_id, chats.creator_id, chats.companion_id,
	t.from_city_id, t.to_city_id, fc.name AS from_city, tc.name AS to_city,
	t.date_from, t.date_to,
	cu.name AS creator_name, cu.avatar AS creator_avatar,
	pu.name AS companion_name, pu.avatar AS companion_avatar,
	chats.created_at`

// ListChats returns the caller's chats, most recently active first.
func (h *Handler) ListChats(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	chats := []models.ChatSummary{}
	if err := h.tx(c).Table("chats").
		Select(chatSummaryColumns).
		Joins("JOIN trips t ON t.id = chats.trip_id").
		Joins("JOIN cities fc ON fc.id = t.from_city_id").
		Joins("JOIN cities tc ON tc.id = t.to_city_id").
		Joins("JOIN users cu ON cu.id = chats.creator_id").
		Joins("JOIN users pu ON pu.id = chats.companion_id").
		Where("chats.creator_id = ? OR chats.companion_id = ?", userID, userID).
		Scan(&chats).Error; err != nil {
		fail(c, err)
		return
	}

	if err := h.attachChatActivity(c, chats, userID); err != nil {
		fail(c, err)
		return
	}

	sort.SliceStable(chats, func(i, j int) bool {
		a, b := chats[i].LastMessageTime, chats[j].LastMessageTime
		switch {
		case a != nil && b != nil:
			return a.After(*b)
		case a != nil:
			return true
		case b != nil:
			return false
		}
		return chats[i].CreatedAt.After(chats[j].CreatedAt)
	})

	c.JSON(http.StatusOK, chats)
}

// attachChatActivity fills last message and unread count for each chat.
// Message ids grow monotonically so the max id per chat is the latest.
func (h *Handler) attachChatActivity(c *gin.Context, chats []models.ChatSummary, userID uint) error {
	if len(chats) == 0 {
		return nil
	}

	ids := make([]uint, len(chats))
	for i, ch := range chats {
		ids[i] = ch.ChatID
	}

	latest := h.tx(c).Model(&models.Message{}).
		Select("MAX(id)").
		Where("chat_id IN ?", ids).
		Group("chat_id")

	var last []models.Message
	if err := h.tx(c).Where("id IN (?)", latest).Find(&last).Error; err != nil {
		return err
	}
	lastByChat := make(map[uint]models.Message, len(last))
	for _, m := range last {
		lastByChat[m.ChatID] = m
	}

	var unread []struct {
		ChatID uint
		Total  int64
	}
	if err := h.tx(c).Model(&models.Message{}).
		Select("chat_id, COUNT(*) AS total").
		Where("chat_id IN ? AND sender_id <> ? AND is_read = ?", ids, userID, false).
		Group("chat_id").
		Scan(&unread).Error; err != nil {
		return err
	}
	unreadByChat := make(map[uint]int64, len(unread))
	for _, u := range unread {
		unreadByChat[u.ChatID] = u.Total
	}

	for i := range chats {
		if m, ok := lastByChat[chats[i].ChatID]; ok {
			content, sentAt := m.Content, m.SentAt
			chats[i].LastMessage = &content
			chats[i].LastMessageTime = &sentAt
		}
		chats[i].UnreadCount = unreadByChat[chats[i].ChatID]
	}
	return nil
}

// memberChat loads the :id chat and checks the caller takes part in it.
func (h *Handler) memberChat(c *gin.Context) (*models.Chat, uint, error) {
	userID, err := mustUser(c)
	if err != nil {
		return nil, 0, err
	}
	chatID, err := paramID(c, "id")
	if err != nil {
		return nil, 0, err
	}

	var chat models.Chat
	if err := h.tx(c).First(&chat, chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NotFound("Chat not found")
		}
		return nil, 0, err
	}
	if !chat.HasMember(userID) {
		return nil, 0, apperrors.Forbidden("You are not a participant of this chat")
	}
	return &chat, userID, nil
}

func (h *Handler) messageViews(c *gin.Context) *gorm.DB {
	return h.tx(c).Table("messages").
		Select(`messages.id, messages.chat_id, messages.content, messages.sent_at,
			messages.sender_id, messages.is_read,
			u.name AS sender_name, u.avatar AS sender_avatar`).
		Joins("JOIN users u ON u.id = messages.sender_id")
}

func (h *Handler) GetMessages(c *gin.Context) {
	chat, _, err := h.memberChat(c)
	if err != nil {
		fail(c, err)
		return
	}

	messages := []models.MessageView{}
	if err := h.messageViews(c).
		Where("messages.chat_id = ?", chat.ID).
		Order("messages.sent_at ASC").
		Order("messages.id ASC").
		Scan(&messages).Error; err != nil {
		fail(c, err)
		return
	}
	for i := range messages {
		messages[i].CreatedAt = messages[i].SentAt
	}

	c.JSON(http.StatusOK, messages)
}

type SendMessageInput struct {
	Content string `json:"content"`
}

// SendMessage stores the message, answers 201 and then pushes it to the
// chat room. Sockets that are not in the room miss it; clients catch up
// through GetMessages.
func (h *Handler) SendMessage(c *gin.Context) {
	chat, userID, err := h.memberChat(c)
	if err != nil {
		fail(c, err)
		return
	}

	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperrors.BadRequest("Invalid request body"))
		return
	}
	content, err := utils.SanitizeMessageContent(input.Content)
	if err != nil {
		fail(c, apperrors.BadRequest(err.Error()))
		return
	}

	msg := models.Message{
		ChatID:   chat.ID,
		SenderID: userID,
		Content:  content,
		SentAt:   time.Now().UTC(),
	}
	if err := h.tx(c).Create(&msg).Error; err != nil {
		fail(c, err)
		return
	}
	metrics.RecordMessageSent()

	var sender models.User
	if err := h.tx(c).Select("id", "name", "avatar").First(&sender, userID).Error; err != nil {
		logger.Warn().Err(err).Uint("user_id", userID).Msg("Sender lookup failed after message insert")
	}

	view := models.MessageView{
		ID:           msg.ID,
		ChatID:       msg.ChatID,
		Content:      msg.Content,
		SentAt:       msg.SentAt,
		CreatedAt:    msg.SentAt,
		SenderID:     userID,
		SenderName:   sender.Name,
		SenderAvatar: sender.Avatar,
		IsRead:       msg.IsRead,
	}

	c.JSON(http.StatusCreated, view)
	services.Emit(h.hub, chat.Room(), services.EventNewMessage, view)
}

type CreateChatInput struct {
	TripID      uint `json:"trip_id"`
	CompanionID uint `json:"companion_id"`
}

// CreateChat opens a chat between a trip's creator and another user. One
// of the two must be the creator.
func (h *Handler) CreateChat(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	var input CreateChatInput
	if err := c.ShouldBindJSON(&input); err != nil || input.TripID == 0 || input.CompanionID == 0 {
		fail(c, apperrors.BadRequest("trip_id and companion_id are required"))
		return
	}
	if input.CompanionID == userID {
		fail(c, apperrors.BadRequest("You cannot start a chat with yourself"))
		return
	}

	var chat models.Chat
	err = h.tx(c).Transaction(func(tx *gorm.DB) error {
		var trip models.Trip
		if err := tx.First(&trip, input.TripID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Trip not found")
			}
			return err
		}

		switch trip.CreatorID {
		case userID:
			chat = models.Chat{TripID: trip.ID, CreatorID: userID, CompanionID: input.CompanionID}
		case input.CompanionID:
			chat = models.Chat{TripID: trip.ID, CreatorID: input.CompanionID, CompanionID: userID}
		default:
			return apperrors.Forbidden("Chats can only be opened with the trip creator")
		}

		var users int64
		if err := tx.Model(&models.User{}).Where("id = ?", input.CompanionID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			return apperrors.NotFound("User not found")
		}

		var existing int64
		if err := tx.Model(&models.Chat{}).
			Where("trip_id = ? AND ((creator_id = ? AND companion_id = ?) OR (creator_id = ? AND companion_id = ?))",
				trip.ID, userID, input.CompanionID, input.CompanionID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.BadRequest("Chat already exists")
		}

		if err := tx.Create(&chat).Error; err != nil {
			if services.IsUniqueViolation(err) {
				return apperrors.BadRequest("Chat already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info().Uint("chat_id", chat.ID).Uint("trip_id", chat.TripID).Msg("Chat created")
	c.JSON(http.StatusCreated, gin.H{"id": chat.ID})
}

// MarkChatRead flags every unread message from the other side as read.
func (h *Handler) MarkChatRead(c *gin.Context) {
	chat, userID, err := h.memberChat(c)
	if err != nil {
		fail(c, err)
		return
	}

	res := h.tx(c).Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chat.ID, userID, false).
		Update("is_read", true)
	if res.Error != nil {
		fail(c, res.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updated": res.RowsAffected})
}
