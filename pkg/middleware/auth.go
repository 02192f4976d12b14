package middleware

import (
	"net/http"
	"strings"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

// AuthSession resolves the session token from the cookie or the
// Authorization header and stores the caller's access in the context.
func AuthSession(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := sessionToken(r, cookieName)
			if !ok {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if session == nil {
				logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			user, err := userRepo.FindByID(r.Context(), session.UserID)
			if err != nil {
				logger.Error("Failed to load session user",
					zap.Error(err), zap.String("user_id", session.UserID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if user == nil || !user.IsActive {
				utils.ResponseUnauthorized(w, "Account is not active")
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
			ctx = utils.SetAccessContext(ctx, user.Access())
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken prefers the cookie and falls back to "Bearer <token>".
func sessionToken(r *http.Request, cookieName string) (string, bool) {
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value, true
		}
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireCustomer lets through callers with a customer account.
func RequireCustomer(logger *zap.Logger) func(http.Handler) http.Handler {
	return require(entity.Access.IsCustomer, "Customer account required", logger)
}

// RequireStaff lets through any staff member.
func RequireStaff(logger *zap.Logger) func(http.Handler) http.Handler {
	return require(entity.Access.IsStaff, "Staff access required", logger)
}

// RequireRoomManager lets through staff allowed to manage room stays.
func RequireRoomManager(logger *zap.Logger) func(http.Handler) http.Handler {
	return require(entity.Access.CanManageRooms, "Room management access required", logger)
}

func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return require(entity.Access.CanAdminister, "Admin access required", logger)
}

func require(allowed func(entity.Access) bool, message string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access, ok := utils.GetAccessFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !allowed(access) {
				logger.Warn("Access denied",
					zap.String("user_id", access.UserID.String()),
					zap.String("path", r.URL.Path),
					zap.String("required", message),
				)
				utils.ResponseForbidden(w, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
