package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mishcoders/rafiq-salah-extension/internal/application/dto"
	"github.com/mishcoders/rafiq-salah-extension/internal/application/service"
	"github.com/mishcoders/rafiq-salah-extension/internal/domain/constant"
	"github.com/mishcoders/rafiq-salah-extension/internal/domain/repository"
	"github.com/mishcoders/rafiq-salah-extension/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ExtensionHandler handles the inbound messages from the popup UI layer.
type ExtensionHandler struct {
	schedulerSvc service.SchedulerService
	stateRepo    repository.StateRepository
	log          logger.Logger
}

// NewExtensionHandler creates a new ExtensionHandler.
func NewExtensionHandler(
	schedulerSvc service.SchedulerService,
	stateRepo repository.StateRepository,
	log logger.Logger,
) *ExtensionHandler {
	return &ExtensionHandler{
		schedulerSvc: schedulerSvc,
		stateRepo:    stateRepo,
		log:          log,
	}
}

// UpdatePrayerTimes handles the updatePrayerTimes message: persist fresh
// timings for a (possibly new) location and reschedule all prayer alarms.
func (h *ExtensionHandler) UpdatePrayerTimes(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdatePrayerTimesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.PrayerTimes) == 0 || req.CountryCode == "" || req.CityName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prayerTimes, countryCode and cityName are required"})
	}

	if err := h.schedulerSvc.ScheduleAllPrayerAlarms(ctx, req.PrayerTimes, req.CountryCode, req.CityName); err != nil {
		h.log.Error("Failed to schedule prayer alarms from UI update", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update, will retry"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "scheduled"})
}

// ToggleReminder handles the toggleReminder message.
func (h *ExtensionHandler) ToggleReminder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ToggleReminderRequest
	if err := c.Bind(&req); err != nil || req.Enabled == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "enabled is required"})
	}

	if err := h.schedulerSvc.SetReminderEnabled(ctx, *req.Enabled); err != nil {
		h.log.Error(fmt.Sprintf("Failed to set reminders enabled=%v", *req.Enabled), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update, will retry"})
	}
	return c.JSON(http.StatusOK, echo.Map{"enabled": *req.Enabled})
}

// UpdateNotificationSettings handles the updateNotificationSettings message:
// merge the provided fields into the persisted settings and reschedule.
func (h *ExtensionHandler) UpdateNotificationSettings(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	settings, err := h.stateRepo.GetSettings(ctx)
	if err != nil {
		h.log.Error("Failed to load settings for update", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update, will retry"})
	}
	if req.ReminderMinutes != nil {
		settings.ReminderMinutes = *req.ReminderMinutes
	}
	if req.PreReminderEnabled != nil {
		settings.PreEnabled = *req.PreReminderEnabled
	}
	if req.ExactReminderEnabled != nil {
		settings.ExactEnabled = *req.ExactReminderEnabled
	}

	if err := h.schedulerSvc.UpdateSettings(ctx, settings); err != nil {
		h.log.Error("Failed to apply notification settings", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update, will retry"})
	}
	return c.JSON(http.StatusOK, settings)
}

// GetState returns everything the popup renders: timings, settings,
// location, and the last scheduling failure if any.
func (h *ExtensionHandler) GetState(c echo.Context) error {
	ctx := c.Request().Context()

	settings, err := h.stateRepo.GetSettings(ctx)
	if err != nil {
		h.log.Error("Failed to load settings for state read", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read state"})
	}
	timings, err := h.stateRepo.GetTimings(ctx)
	if err != nil {
		h.log.Error("Failed to load timings for state read", err)
	}
	loc, err := h.stateRepo.GetLocation(ctx)
	if err != nil {
		h.log.Error("Failed to load location for state read", err)
	}
	lastUpdated, _ := h.stateRepo.GetLastUpdated(ctx)
	schedErr, _ := h.stateRepo.GetLastScheduleError(ctx)

	return c.JSON(http.StatusOK, dto.StateResponse{
		PrayerTimes:       timings,
		Settings:          settings,
		Location:          loc,
		LastUpdated:       lastUpdated,
		LastScheduleError: schedErr,
	})
}

// NextPrayer returns the upcoming prayer and minutes until it, for the
// popup's countdown display.
func (h *ExtensionHandler) NextPrayer(c echo.Context) error {
	ctx := c.Request().Context()

	timings, err := h.stateRepo.GetTimings(ctx)
	if err != nil {
		h.log.Error("Failed to load timings for next-prayer read", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read state"})
	}
	if timings == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no prayer times stored yet"})
	}

	now := time.Now()
	name, at, ok := timings.NextPrayer(now)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no valid prayer times stored"})
	}
	return c.JSON(http.StatusOK, dto.NextPrayerResponse{
		Name:         name,
		ArabicName:   constant.PrayerNamesArabic[name],
		At:           at.UnixMilli(),
		MinutesUntil: int(at.Sub(now).Minutes()),
	})
}
