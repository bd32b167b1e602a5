package redis

import (
	"fmt"

	"github.com/mcoot/cowsbulls-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "cbgame"

// sessionKey returns the Redis key for a GameSession record
func sessionKey(code model.SessionCode) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, code)
}

// sessionChannel returns the pub/sub channel for a session's change events
func sessionChannel(code model.SessionCode) string {
	return fmt.Sprintf("%s:events:%s", keyPrefix, code)
}
