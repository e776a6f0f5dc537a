package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type capture struct {
	namespace, room, event string
	args                   []interface{}
}

func (c *capture) BroadcastToRoom(namespace, room, event string, args ...interface{}) bool {
	c.namespace, c.room, c.event, c.args = namespace, room, event, args
	return true
}

func TestEmit(t *testing.T) {
	c := &capture{}
	Emit(c, "chat_3", EventNewMessage, map[string]int{"id": 1})

	assert.Equal(t, "/", c.namespace)
	assert.Equal(t, "chat_3", c.room)
	assert.Equal(t, EventNewMessage, c.event)
	assert.Equal(t, []interface{}{map[string]int{"id": 1}}, c.args)

	assert.NotPanics(t, func() { Emit(nil, "chat_3", EventNewMessage, nil) })
	assert.NotPanics(t, func() { Emit(NopBroadcaster{}, "chat_3", EventNewMessage, nil) })
}
