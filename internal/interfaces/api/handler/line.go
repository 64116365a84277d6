package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/mishcoders/rafiq-salah-extension/internal/application/service"
	"github.com/mishcoders/rafiq-salah-extension/internal/infrastructure/line"
	"github.com/mishcoders/rafiq-salah-extension/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// LineHandler handles incoming LINE webhook events: the acknowledge and
// postpone actions sent back by the reminder notifications.
type LineHandler struct {
	lineClient  *line.Client
	postponeSvc service.PostponeService
	log         logger.Logger
}

// NewLineHandler creates a new LineHandler.
func NewLineHandler(
	lineClient *line.Client,
	postponeSvc service.PostponeService,
	log logger.Logger,
) *LineHandler {
	return &LineHandler{
		lineClient:  lineClient,
		postponeSvc: postponeSvc,
		log:         log,
	}
}

// HandleWebhook is the main entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.lineClient.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}

	for _, event := range events {
		switch event.Type {
		case linebot.EventTypeMessage:
			h.handleMessageEvent(ctx, event)
		case linebot.EventTypeFollow:
			h.handleFollowEvent(ctx, event)
		default:
			h.log.Debug(fmt.Sprintf("Unhandled event type: %s", event.Type))
		}
	}

	return c.String(http.StatusOK, "OK")
}

// handleFollowEvent adopts the follower as the notification recipient when
// none is configured, and greets them.
func (h *LineHandler) handleFollowEvent(ctx context.Context, event *linebot.Event) {
	userID := event.Source.UserID
	h.log.Info(fmt.Sprintf("User %s followed the bot.", userID))

	if os.Getenv("NOTIFY_USER_ID") == "" {
		h.lineClient.SetRecipient(userID)
		h.log.Info(fmt.Sprintf("Adopted %s as the notification recipient.", userID))
	}

	if err := h.lineClient.ShowWelcome(ctx); err != nil {
		h.log.Error(fmt.Sprintf("Failed to send welcome message to %s", userID), err)
	}
}

// handleMessageEvent routes the quick-reply commands carried by the reminder
// notifications.
func (h *LineHandler) handleMessageEvent(ctx context.Context, event *linebot.Event) {
	message, ok := event.Message.(*linebot.TextMessage)
	if !ok {
		return
	}
	text := strings.TrimSpace(message.Text)
	h.log.Info(fmt.Sprintf("Received text message from %s: %s", event.Source.UserID, text))

	switch text {
	case line.ActionPostpone:
		if err := h.postponeSvc.RequestPostpone(ctx); err != nil {
			h.log.Error("Postpone request failed", err)
			h.replyWithError(event.ReplyToken, "تعذر تأجيل التذكير. يرجى المحاولة مرة أخرى.")
		}
	case line.ActionAcknowledge:
		// Nothing to do; the reminder was dismissed.
		h.log.Debug("Reminder acknowledged.")
	default:
		h.log.Debug(fmt.Sprintf("Ignoring unrecognized command: %s", text))
	}
}

// replyWithError sends a simple error text reply.
func (h *LineHandler) replyWithError(replyToken, message string) {
	if err := h.lineClient.SendMessages(replyToken, linebot.NewTextMessage(message)); err != nil {
		h.log.Error("Failed to send error reply", err)
	}
}
