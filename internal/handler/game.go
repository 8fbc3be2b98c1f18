package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"picturecards/internal/domain"
	"picturecards/internal/service"
	"picturecards/internal/session"
	"picturecards/internal/telegram"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const transcribeTimeout = 30 * time.Second

// handleText treats text as the password until the player is authorized,
// then as an answer
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	// Ensure player exists
	if err := h.authService.EnsurePlayerExists(userID); err != nil {
		h.logger.Error("Failed to ensure player exists", zap.Error(err))
		return nil
	}

	// Check authorization first
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(msgError)
	}

	if !authorized {
		return h.checkPassword(c, text)
	}

	return h.submit(c, text)
}

// submit passes an answer to the chat's game. Feedback, tone and the next
// card are sent by the chat's presenter.
func (h *Handler) submit(c tele.Context, answer string) error {
	chatID := c.Chat().ID

	if _, ok := h.gameService.Submit(chatID, answer); ok {
		return nil
	}

	snap, exists := h.gameService.Status(chatID)
	return h.replyNoCard(c, snap, exists)
}

// replyNoCard explains why nothing was evaluated. It never touches the game.
func (h *Handler) replyNoCard(c tele.Context, snap session.Snapshot, exists bool) error {
	switch {
	case !exists || snap.State == session.StateIdle:
		return c.Send(msgNotStarted)
	case snap.State == session.StateComplete:
		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(btnRestart))
		return c.Send("Цикл завершён. Нажми «Ещё раз» или /restart.", markup)
	default:
		// the previous answer is still on screen
		return nil
	}
}

// handleRestart handles /restart [N]
func (h *Handler) handleRestart(c tele.Context) error {
	size := 0
	if args := c.Args(); len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return c.Send("Длина цикла должна быть положительным числом, например /restart 5")
		}
		size = n
	}

	return h.startCycle(c, size)
}

// startCycle begins a new cycle. The first card is sent by the presenter.
func (h *Handler) startCycle(c tele.Context, size int) error {
	chatID := c.Chat().ID
	target := h.gameService.Restart(chatID, size)

	h.logger.Info("Player restarted cycle",
		zap.Int64("user_id", c.Sender().ID),
		zap.Int64("chat_id", chatID),
		zap.Int("target", target),
	)
	return nil
}

// handleStatus handles /status
func (h *Handler) handleStatus(c tele.Context) error {
	snap, ok := h.gameService.Status(c.Chat().ID)
	if !ok {
		return c.Send(msgNotStarted)
	}
	return c.Send(statusText(snap))
}

// handleVoice transcribes a spoken answer and submits it
func (h *Handler) handleVoice(c tele.Context) error {
	chatID := c.Chat().ID

	if !h.speechService.Available() {
		return c.Send("Голосовые ответы не настроены. Напиши ответ текстом.")
	}

	snap, ok := h.gameService.Status(chatID)
	if !ok || snap.State != session.StatePresenting || snap.Current == nil {
		return h.replyNoCard(c, snap, ok)
	}
	cardID := snap.Current.ID

	voice := c.Message().Voice
	if voice == nil {
		return nil
	}

	rc, err := h.files.File(&voice.File)
	if err != nil {
		h.logger.Error("Failed to download voice message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return c.Send(msgError)
	}
	defer rc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), transcribeTimeout)
	defer cancel()

	text, err := h.speechService.Transcribe(ctx, rc, "voice.ogg")
	if err != nil {
		if errors.Is(err, service.ErrSpeechUnavailable) {
			return c.Send("Голосовые ответы не настроены. Напиши ответ текстом.")
		}
		h.logger.Error("Failed to transcribe voice message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return c.Send("Не удалось распознать голос. Попробуй ещё раз или напиши ответ.")
	}

	if text == "" {
		return c.Send("Не расслышал 🤔 Попробуй ещё раз.")
	}

	if err := c.Send(fmt.Sprintf("🎙 %s", text)); err != nil {
		h.logger.Warn("Failed to echo transcript", zap.Error(err))
	}

	// the card may have changed while the note was transcribed
	if _, ok := h.gameService.SubmitFor(chatID, cardID, text); ok {
		return nil
	}

	snap, ok = h.gameService.Status(chatID)
	if ok && snap.State == session.StatePresenting {
		h.logger.Debug("Dropped voice answer for a previous card",
			zap.Int64("chat_id", chatID),
			zap.String("item_id", cardID),
		)
		return c.Send("Карточка уже сменилась. Ответь на новую.")
	}
	return h.replyNoCard(c, snap, ok)
}

func statusText(snap session.Snapshot) string {
	p := snap.Progress

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Цикл из %d карточек\n\n", snap.Target)
	fmt.Fprintf(&b, "Осталось: %d\nВерно: %d\nПовтор: %d\nНеверно: %d", p.Remaining, p.Correct, p.Review, p.Wrong)

	if history := telegram.HistoryText(domain.History{
		Correct: domain.NamesOf(snap.Correct),
		Review:  domain.NamesOf(snap.Review),
		Wrong:   domain.NamesOf(snap.Wrong),
	}); history != "" {
		b.WriteString("\n\n")
		b.WriteString(history)
	}

	switch snap.State {
	case session.StateComplete:
		b.WriteString("\n\nЦикл завершён.")
	case session.StateIdle:
		b.WriteString("\n\nЦикл не начат.")
	}
	return b.String()
}
