package middleware

import (
	"picturecards/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AuthMiddleware lets only authorized players reach the wrapped handlers
func AuthMiddleware(authService *service.AuthService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID

			if err := authService.EnsurePlayerExists(userID); err != nil {
				logger.Error("Failed to ensure player exists in middleware", zap.Error(err))
				return c.Send("Произошла ошибка. Попробуйте позже.")
			}

			authorized, err := authService.IsAuthorized(userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return c.Send("Произошла ошибка. Попробуйте позже.")
			}

			if !authorized {
				logger.Debug("Rejected unauthorized player", zap.Int64("user_id", userID))
				if c.Callback() != nil {
					_ = c.Respond(&tele.CallbackResponse{Text: "Сначала введи пароль"})
				}
				return c.Send("Это закрытая игра. Введи пароль:")
			}

			return next(c)
		}
	}
}
