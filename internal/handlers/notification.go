package handlers

import (
	"net/http"

	"echoboard/internal/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List 未读通知列表。查看即视为已读：本次返回的通知随之全部转为已读
func (h *NotificationHandler) List(c *gin.Context) {
	account := mustAccount(c)

	notifications, err := h.notifications.ListUnread(account)
	if err != nil {
		respondError(c, err)
		return
	}

	numChecked, err := h.notifications.CountRead(account)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications":      notifications,
		"number_not_checked": len(notifications),
		"number_checked":     numChecked,
	})
}

// ListOld 已读通知列表，无副作用
func (h *NotificationHandler) ListOld(c *gin.Context) {
	account := mustAccount(c)

	notifications, err := h.notifications.ListRead(account)
	if err != nil {
		respondError(c, err)
		return
	}

	numUnchecked, err := h.notifications.CountUnread(account)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications":      notifications,
		"number_not_checked": numUnchecked,
		"number_checked":     len(notifications),
	})
}

// Count 角标用的未读/已读计数，无副作用
func (h *NotificationHandler) Count(c *gin.Context) {
	account := mustAccount(c)

	unread, err := h.notifications.CountUnread(account)
	if err != nil {
		respondError(c, err)
		return
	}
	read, err := h.notifications.CountRead(account)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": unread, "read": read})
}

// DeleteRead 清空已读通知
func (h *NotificationHandler) DeleteRead(c *gin.Context) {
	account := mustAccount(c)

	if err := h.notifications.DeleteRead(account); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已读通知已清空"})
}
