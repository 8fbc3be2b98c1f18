package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgError          = "Произошла ошибка. Попробуйте позже."
	msgPasswordPrompt = "Привет! Это закрытая игра. Введи пароль:"
	msgNotStarted     = "Игра ещё не начата. Нажми /start, чтобы выбрать длину цикла."
)

// handleStart handles /start command and the menu button
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("Player started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure player exists in database
	if err := h.authService.EnsurePlayerExists(userID); err != nil {
		h.logger.Error("Failed to ensure player exists", zap.Error(err))
		return c.Send(msgError)
	}

	// Check if authorized
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(msgError)
	}

	if !authorized {
		return c.Send(msgPasswordPrompt)
	}

	if c.Callback() != nil {
		_ = c.Respond()
	}
	return c.Send(menuText(h.gameService.CatalogSize()), menuMarkup(h.gameService.CycleSizes()))
}

// checkPassword authorizes the player when text is the bot password
func (h *Handler) checkPassword(c tele.Context, text string) error {
	userID := c.Sender().ID

	if !h.authService.CheckPassword(text) {
		return c.Send("Неверный пароль")
	}

	if err := h.authService.AuthorizePlayer(userID); err != nil {
		h.logger.Error("Failed to authorize player", zap.Error(err))
		return c.Send(msgError)
	}

	h.logger.Info("Player authorized", zap.Int64("user_id", userID))
	return c.Send(
		"✅ Доступ разрешён!\n\n"+menuText(h.gameService.CatalogSize()),
		menuMarkup(h.gameService.CycleSizes()),
	)
}
