package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobmatch/internal/api/middleware"
	"jobmatch/internal/store"
)

// ListNotificationsHandler returns the user's notifications, newest first
func ListNotificationsHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		notifications, err := st.Notifications().ListByUser(c.Request().Context(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, notifications)
	}
}

// MarkNotificationReadHandler marks one notification read. Marking an
// already-read or unknown notification still reports success; the client
// only cares that it is no longer unread.
func MarkNotificationReadHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		n, err := st.Notifications().Find(ctx, c.Param("id"))
		if err != nil || n.UserID != middleware.UserID(c) {
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return respondError(c, err)
			}
			return c.JSON(http.StatusOK, map[string]bool{"success": true})
		}

		if !n.Read {
			n.Read = true
			if err := st.Notifications().Update(ctx, n); err != nil {
				return respondError(c, err)
			}
		}
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}
}

// MarkAllNotificationsReadHandler marks every notification of the user read
func MarkAllNotificationsReadHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		notifications, err := st.Notifications().ListByUser(ctx, middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}

		for _, n := range notifications {
			if n.Read {
				continue
			}
			n.Read = true
			if err := st.Notifications().Update(ctx, n); err != nil {
				return respondError(c, err)
			}
		}
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}
}

// DeleteNotificationHandler removes one of the user's notifications
func DeleteNotificationHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		n, err := st.Notifications().Find(ctx, c.Param("id"))
		if err != nil || n.UserID != middleware.UserID(c) {
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return respondError(c, err)
			}
			return c.JSON(http.StatusOK, map[string]bool{"success": true})
		}

		if err := st.Notifications().Delete(ctx, n.ID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}
}
