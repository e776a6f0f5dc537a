package models

import "strconv"

// Socket.IO room names. Clients join chat rooms explicitly; user rooms
// are joined automatically on an authenticated connect.
func ChatRoom(chatID uint) string {
	return "chat_" + strconv.FormatUint(uint64(chatID), 10)
}

func UserRoom(userID uint) string {
	return "user_" + strconv.FormatUint(uint64(userID), 10)
}
