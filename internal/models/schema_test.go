package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/schema"
)

// Views are filled by Scan, which silently drops columns gorm cannot map.
func TestViewsParseAsGormSchemas(t *testing.T) {
	cache := &sync.Map{}
	for name, v := range map[string]interface{}{
		"Trip":            &Trip{},
		"TripView":        &TripView{},
		"User":            &User{},
		"Profile":         &Profile{},
		"TripRequestView": &TripRequestView{},
		"ChatSummary":     &ChatSummary{},
		"MessageView":     &MessageView{},
		"ReviewView":      &ReviewView{},
	} {
		s, err := schema.Parse(v, cache, schema.NamingStrategy{})
		if assert.NoError(t, err, name) && (name == "TripView" || name == "Trip") {
			assert.NotNil(t, s.LookUpField("interests"), name)
		}
	}
}
