package usecase

import (
	"context"

	"enabler-backend/dao"
	"enabler-backend/model"
)

type NotificationUsecase struct {
	repo *dao.NotificationRepository
}

func NewNotificationUsecase(repo *dao.NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{repo: repo}
}

func (u *NotificationUsecase) List(ctx context.Context, userID string) ([]model.Notification, error) {
	return u.repo.ListByUser(ctx, userID)
}

func (u *NotificationUsecase) MarkRead(ctx context.Context, notificationID, userID string) error {
	return u.repo.MarkRead(ctx, notificationID, userID)
}
