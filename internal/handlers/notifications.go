package handlers

import (
	"net/http"

	"ipfolio/internal/notification"

	"github.com/labstack/echo/v4"
)

func GetNotifications(c echo.Context) error {
	filter := &notification.NotificationFilter{OrgID: orgID(c)}
	if t := c.QueryParam("type"); t != "" {
		filter.Type = notification.NotificationType(t)
	}
	if unread := c.QueryParam("unread"); unread == "true" {
		read := false
		filter.Read = &read
	}

	notifications, err := notification.GetNotificationService().GetNotifications(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch notifications"})
	}
	return c.JSON(http.StatusOK, notifications)
}

func MarkNotificationRead(c echo.Context) error {
	err := notification.GetNotificationService().MarkAsRead(c.Request().Context(), orgID(c), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to mark notification as read"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

func MarkAllNotificationsRead(c echo.Context) error {
	err := notification.GetNotificationService().MarkAllAsRead(c.Request().Context(), orgID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to mark notifications as read"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "All notifications marked as read"})
}

func DeleteNotification(c echo.Context) error {
	err := notification.GetNotificationService().DeleteNotification(c.Request().Context(), orgID(c), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete notification"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification deleted"})
}

func CleanupExpiredNotifications(c echo.Context) error {
	err := notification.GetNotificationService().CleanupExpiredNotifications(c.Request().Context(), orgID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to clean up notifications"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Expired notifications removed"})
}

func GetNotificationStats(c echo.Context) error {
	stats, err := notification.GetNotificationService().GetNotificationStats(c.Request().Context(), orgID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch notification stats"})
	}
	return c.JSON(http.StatusOK, stats)
}
