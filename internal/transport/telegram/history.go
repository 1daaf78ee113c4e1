package telegram

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/sandevgo/recall/internal/core"
)

const historyTTL = 7 * 24 * time.Hour

// Telegram has no API for reading past messages, so the bot keeps what it
// has seen and rebuilds reply chains and names from that.
type history struct {
	cache *ristretto.Cache
}

type seenMessage struct {
	User    string
	Text    string
	ReplyTo int
}

func newHistory(items int64) (*history, error) {
	if items <= 0 {
		items = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: items * 10,
		MaxCost:     items,
		BufferItems: 64,
		// entries are counted, not sized
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create message history: %w", err)
	}
	return &history{cache: cache}, nil
}

func messageKey(chatID int64, msgID int) string {
	return "m:" + strconv.FormatInt(chatID, 10) + ":" + strconv.Itoa(msgID)
}

func userKey(userID string) string {
	return "u:" + userID
}

func (h *history) remember(chatID int64, msgID int, m seenMessage) {
	h.cache.SetWithTTL(messageKey(chatID, msgID), m, 1, historyTTL)
}

func (h *history) message(chatID int64, msgID int) (seenMessage, bool) {
	v, ok := h.cache.Get(messageKey(chatID, msgID))
	if !ok {
		return seenMessage{}, false
	}
	return v.(seenMessage), true
}

func (h *history) rememberUser(p core.UserProfile) {
	h.cache.SetWithTTL(userKey(p.ID), p, 1, historyTTL)
}

func (h *history) user(userID string) (core.UserProfile, bool) {
	v, ok := h.cache.Get(userKey(userID))
	if !ok {
		return core.UserProfile{}, false
	}
	return v.(core.UserProfile), true
}

// chain walks reply links up from msgID and returns the messages oldest
// first. Links to messages the bot never saw end the walk.
func (h *history) chain(chatID int64, msgID int) []core.ThreadMessage {
	var out []core.ThreadMessage
	seen := make(map[int]bool)
	for id := msgID; id != 0 && !seen[id]; {
		seen[id] = true
		m, ok := h.message(chatID, id)
		if !ok {
			break
		}
		out = append(out, core.ThreadMessage{User: m.User, Text: m.Text})
		id = m.ReplyTo
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (h *history) wait() {
	h.cache.Wait()
}

func (h *history) close() {
	h.cache.Close()
}
