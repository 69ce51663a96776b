package alert

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// MessageSender is the slice of tgbotapi.BotAPI the dispatcher needs.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Dispatcher pushes alert text to the configured Telegram destinations.
// Delivery is fire-and-forget: a failed send is logged and dropped, it never
// blocks or rolls back the tracking state that triggered it.
type Dispatcher struct {
	api   MessageSender
	chats []int64
	redis *redis.Client // optional, nil in standalone mode
}

func NewDispatcher(api MessageSender, chatID, groupID int64, redisClient *redis.Client) *Dispatcher {
	var chats []int64
	if chatID != 0 {
		chats = append(chats, chatID)
	}
	if groupID != 0 {
		chats = append(chats, groupID)
	}

	return &Dispatcher{
		api:   api,
		chats: chats,
		redis: redisClient,
	}
}

// Send broadcasts to all default destinations. Returns true when at least
// one destination accepted the message.
func (d *Dispatcher) Send(text string) bool {
	if len(d.chats) == 0 {
		log.Printf("⚠️  No Telegram chat IDs configured")
		return false
	}

	success := false
	for _, chat := range d.chats {
		if d.SendTo(chat, text) {
			success = true
		}
	}

	return success
}

// SendTo delivers to a single chat.
func (d *Dispatcher) SendTo(chatID int64, text string) bool {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := d.api.Send(msg); err != nil {
		log.Printf("❌ Failed to send alert to %d: %v", chatID, err)
		return false
	}

	return true
}

// SendOnce broadcasts, skipping alerts already delivered under the same key.
// Dedup rides on Redis SETNX when Redis is configured; in standalone mode
// every alert goes out (the trackers' own idempotence gates still apply).
func (d *Dispatcher) SendOnce(key, text string) bool {
	if d.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		ok, err := d.redis.SetNX(ctx, "alert:"+key, uuid.NewString(), dedupTTL).Result()
		if err != nil {
			log.Printf("⚠️  Alert dedup check failed for %s: %v", key, err)
		} else if !ok {
			log.Printf("  Skipping duplicate alert %s", key)
			return false
		}
	}

	return d.Send(text)
}

// NewRedisClient creates the optional dedup Redis client. An empty host
// means standalone mode (nil client, no error).
func NewRedisClient(host, port, password string, db int) (*redis.Client, error) {
	if host == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
