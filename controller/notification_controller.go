package controller

import (
	"net/http"

	"go.uber.org/zap"

	"enabler-backend/model"
	"enabler-backend/usecase"
)

type NotificationController struct {
	usecase *usecase.NotificationUsecase
	logger  *zap.Logger
}

func NewNotificationController(usecase *usecase.NotificationUsecase, logger *zap.Logger) *NotificationController {
	return &NotificationController{usecase: usecase, logger: logger}
}

// HandleNotifications lists the acting user's notifications.
// GET /notifications
func (c *NotificationController) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	list, err := c.usecase.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	if list == nil {
		list = []model.Notification{}
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleNotificationDetail marks a notification read.
// POST /notifications/{id}/read
func (c *NotificationController) HandleNotificationDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	parts := pathParts(r)
	if len(parts) != 3 || parts[2] != "read" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := c.usecase.MarkRead(r.Context(), parts[1], userID); err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
