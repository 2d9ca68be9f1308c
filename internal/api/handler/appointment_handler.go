package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinicbook/appointment-system/internal/api/metrics"
	"github.com/clinicbook/appointment-system/internal/core/domain"
	"github.com/clinicbook/appointment-system/internal/core/ports"
)

// AppointmentHandler handles HTTP requests for ledger operations.
type AppointmentHandler struct {
	service ports.AppointmentService
	baseURL string
}

func NewAppointmentHandler(service ports.AppointmentService, baseURL string) *AppointmentHandler {
	return &AppointmentHandler{service: service, baseURL: baseURL}
}

// List returns appointments scoped by the caller's role: admins see all,
// doctors see their own.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   appointmentResponse
// @Failure      403  {object}  errorResponse
// @Router       /appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	appts, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	resp := make([]appointmentResponse, 0, len(appts))
	for _, a := range appts {
		resp = append(resp, toAppointmentResponse(a, h.baseURL))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create books a new appointment.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAppointmentRequest  true  "Appointment details"
// @Success      201   {object}  appointmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /appointments [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appt, err := h.service.Create(c.Request().Context(), ports.CreateAppointmentInput{
		DoctorID:    req.Doctor,
		PatientID:   req.Patient,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			metrics.SlotConflictsTotal.Inc()
		}
		return err
	}

	metrics.AppointmentsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toAppointmentResponse(appt, h.baseURL))
}

// Get returns one appointment. Admins may fetch any; doctors only their own.
//
// @Summary      Retrieve an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  appointmentResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	appt, err := h.service.Get(c.Request().Context(), c.Param("id"), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(appt, h.baseURL))
}

// Update applies a partial update, re-validating participants and the slot.
//
// @Summary      Update an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Appointment id"
// @Param        body  body      updateAppointmentRequest  true  "Fields to update"
// @Success      200   {object}  appointmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /appointments/{id} [put]
func (h *AppointmentHandler) Update(c echo.Context) error {
	var req updateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	appt, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateAppointmentInput{
		DoctorID:    req.Doctor,
		PatientID:   req.Patient,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			metrics.SlotConflictsTotal.Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(appt, h.baseURL))
}

// Delete removes an appointment.
//
// @Summary      Delete an appointment
// @Tags         appointments
// @Security     BearerAuth
// @Param        id  path  string  true  "Appointment id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Summary groups appointments by calendar date within a date range.
//
// @Summary      Appointment summary by date
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        start_date   query     string  true   "Range start (YYYY-MM-DD)"
// @Param        end_date     query     string  false  "Range end, inclusive (YYYY-MM-DD)"
// @Param        doctor_name  query     string  false  "Case-insensitive doctor username substring"
// @Success      200  {array}   summaryRowResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /appointments/summary [get]
func (h *AppointmentHandler) Summary(c echo.Context) error {
	startStr := c.QueryParam("start_date")
	if startStr == "" {
		return domain.ErrMissingStartDate
	}
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start_date, use YYYY-MM-DD")
	}

	input := ports.SummaryInput{StartDate: start, DoctorName: c.QueryParam("doctor_name")}
	if endStr := c.QueryParam("end_date"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid end_date, use YYYY-MM-DD")
		}
		input.EndDate = &end
	}

	rows, err := h.service.Summarize(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.SummaryRequestsTotal.Inc()
	resp := make([]summaryRowResponse, 0, len(rows))
	for _, row := range rows {
		urls := make([]string, 0, len(row.AppointmentIDs))
		for _, id := range row.AppointmentIDs {
			urls = append(urls, appointmentURL(h.baseURL, id))
		}
		resp = append(resp, summaryRowResponse{Date: row.Date, Count: row.Count, AppointmentURLs: urls})
	}
	return c.JSON(http.StatusOK, resp)
}
