package line

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/constant"
	appErrors "github.com/mishcoders/rafiq-salah-extension/internal/pkg/errors"
	"github.com/mishcoders/rafiq-salah-extension/internal/pkg/logger"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Quick-reply labels sent back as text commands by the notification buttons.
const (
	ActionAcknowledge = "تم"
	ActionPostpone    = "تأجيل"

	postponeButtonLabel = "تأجيل 5 دقائق"
)

// Client wraps the linebot.Client and presents the reminder notifications.
type Client struct {
	*linebot.Client
	recipient string
	log       logger.Logger
}

var (
	lineClientInstance *Client
	once               sync.Once
)

// NewClient creates a new singleton instance of the LINE Bot client.
// It reads credentials and the notification recipient from environment variables.
func NewClient(log logger.Logger) *Client {
	once.Do(func() {
		channelSecret := os.Getenv("CHANNEL_SECRET")
		channelToken := os.Getenv("CHANNEL_ACCESS_TOKEN")
		recipient := os.Getenv("NOTIFY_USER_ID")

		if channelSecret == "" || channelToken == "" {
			log.Error("🔴 ERROR: CHANNEL_SECRET and CHANNEL_ACCESS_TOKEN environment variables must be set", nil)
			os.Exit(1)
		}
		if recipient == "" {
			log.Warn("NOTIFY_USER_ID environment variable not set; reminders will fail until a user follows the bot")
		}

		bot, err := linebot.New(channelSecret, channelToken)
		if err != nil {
			log.Error("🔴 ERROR: Failed to create LINE Bot client", err)
			os.Exit(1)
		}
		log.Info("Successfully created LINE Bot client.")
		lineClientInstance = &Client{
			Client:    bot,
			recipient: recipient,
			log:       log,
		}
	})
	return lineClientInstance
}

// SetRecipient updates the notification recipient, e.g. when a user follows
// the bot and no recipient was configured.
func (c *Client) SetRecipient(userID string) {
	c.recipient = userID
}

// push sends messages to the configured recipient.
func (c *Client) push(messages ...linebot.SendingMessage) error {
	if c.recipient == "" {
		return fmt.Errorf("%w: no notification recipient configured", appErrors.ErrNotificationAPI)
	}
	if _, err := c.PushMessage(c.recipient, messages...).Do(); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrNotificationAPI, err)
	}
	return nil
}

// SendMessages sends one or more messages using the ReplyMessage API.
func (c *Client) SendMessages(replyToken string, messages ...linebot.SendingMessage) error {
	if _, err := c.ReplyMessage(replyToken, messages...).Do(); err != nil {
		return err
	}
	c.log.Debug("Successfully sent reply message.")
	return nil
}

// ParseRequest parses incoming webhook requests.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.Client.ParseRequest(r)
}

// formatLeadTime renders an Arabic lead-time phrase such as "خلال 5 دقيقة"
// or "خلال ساعة و10 دقيقة".
func formatLeadTime(minutes int) string {
	if minutes == 1 {
		return "خلال دقيقة واحدة"
	}
	if minutes < 60 {
		return fmt.Sprintf("خلال %d دقيقة", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("خلال %d ساعة", hours)
	}
	return fmt.Sprintf("خلال %d ساعة و%d دقيقة", hours, mins)
}

// ShowPrayerReminder presents a reminder for the given prayer. minutesBefore
// is zero for exact reminders. Only pre reminders carry the postpone button;
// exact reminders can only be acknowledged.
func (c *Client) ShowPrayerReminder(ctx context.Context, prayerName string, minutesBefore int, allowPostpone bool) error {
	arabicName := constant.PrayerNamesArabic[prayerName]
	if arabicName == "" {
		arabicName = prayerName
	}

	var text string
	if minutesBefore > 0 {
		text = fmt.Sprintf("🕌 تذكير الصلاة\nحان وقت صلاة %s %s", arabicName, formatLeadTime(minutesBefore))
	} else {
		text = fmt.Sprintf("🕌 تذكير الصلاة\nحان الآن وقت صلاة %s", arabicName)
	}

	buttons := []*linebot.QuickReplyButton{
		linebot.NewQuickReplyButton("", linebot.NewMessageAction(ActionAcknowledge, ActionAcknowledge)),
	}
	if allowPostpone {
		buttons = append(buttons, linebot.NewQuickReplyButton("", linebot.NewMessageAction(postponeButtonLabel, ActionPostpone)))
	}
	message := linebot.NewTextMessage(text).WithQuickReplies(linebot.NewQuickReplyItems(buttons...))

	return c.push(message)
}

// ShowPostponedReminder presents the final reminder after a snooze. Snoozes
// cannot re-snooze, so only acknowledge is offered.
func (c *Client) ShowPostponedReminder(ctx context.Context) error {
	quickReply := linebot.NewQuickReplyItems(
		linebot.NewQuickReplyButton("", linebot.NewMessageAction(ActionAcknowledge, ActionAcknowledge)),
	)
	message := linebot.NewTextMessage("🔔 تذكير مؤجل\nتذكير: حان وقت الصلاة (لا يمكن التأجيل مرة أخرى)").
		WithQuickReplies(quickReply)
	return c.push(message)
}

// ShowPostponeConfirmation confirms that a snooze was scheduled.
func (c *Client) ShowPostponeConfirmation(ctx context.Context) error {
	return c.push(linebot.NewTextMessage(
		fmt.Sprintf("تم التأجيل\nسيتم تذكيرك مرة أخرى خلال %d دقائق (لمرة واحدة فقط)", constant.SnoozeMinutes)))
}

// ShowNoMorePostpone informs the user that this occurrence was already postponed.
func (c *Client) ShowNoMorePostpone(ctx context.Context) error {
	return c.push(linebot.NewTextMessage(
		"لا يمكن التأجيل مرة أخرى\nتم تأجيل هذا التذكير مسبقاً. حان وقت الصلاة الآن."))
}

// ShowWelcome greets a user who has not selected a location yet.
func (c *Client) ShowWelcome(ctx context.Context) error {
	return c.push(linebot.NewTextMessage(
		"مرحباً بك في رفيق الصلاة 🕌\nاختر موقعك لبدء التذكير."))
}
