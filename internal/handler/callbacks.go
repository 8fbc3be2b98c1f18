package handler

import (
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// parseSize extracts N from "size_N"
func parseSize(data string) (int, bool) {
	s, ok := strings.CutPrefix(data, "size_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Buttons with Unique that didn't reach their own handler
	switch {
	case callback.Unique == btnRestart.Unique || data == btnRestart.Unique:
		return h.handleRestartButton(c)
	case callback.Unique == btnMenu.Unique || data == btnMenu.Unique:
		return h.handleStart(c)
	}

	if strings.HasPrefix(data, "size_") {
		return h.handleSizeSelection(c, data)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleSizeSelection starts a cycle of the chosen length
func (h *Handler) handleSizeSelection(c tele.Context, data string) error {
	size, ok := parseSize(data)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Неверная длина цикла"})
	}

	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.startCycle(c, size)
}

// handleRestartButton repeats the last cycle length, or the default one
func (h *Handler) handleRestartButton(c tele.Context) error {
	size := 0
	if snap, ok := h.gameService.Status(c.Chat().ID); ok {
		size = snap.Target
	}

	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.startCycle(c, size)
}
