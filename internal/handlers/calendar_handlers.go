package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"revisionHub/internal/handlers/dto"
	"revisionHub/internal/logger"
	"revisionHub/internal/middleware"
	"revisionHub/internal/models/calendar"
	"revisionHub/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CalendarHandler struct {
	Service CalendarService
}

func NewCalendarHandler(calendarService CalendarService) *CalendarHandler {
	return &CalendarHandler{Service: calendarService}
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		responseWithJSON(w, http.StatusUnauthorized,
			toPayload("error", service.CodeUnauthorized),
			toPayload("message", "Требуется авторизация"))
	}
	return userID, ok
}

// dayParam читает {date} и проверяет формат YYYY-MM-DD
func dayParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	day := chi.URLParam(r, "date")
	if _, err := calendar.ParseDayKey(day); err != nil {
		logger.Warn("HTTP: Неверное значение параметра",
			zap.String("param", "date"),
			zap.String("value", day),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "дата должна быть в формате YYYY-MM-DD")
		return "", false
	}
	return day, true
}

// taskRefParam читает {index}: неотрицательное число - позиция, UUID - стабильный ID задачи
func taskRefParam(w http.ResponseWriter, r *http.Request) (service.TaskRef, bool) {
	raw := chi.URLParam(r, "index")
	if index, err := strconv.Atoi(raw); err == nil && index >= 0 {
		return service.TaskRef{Index: index}, true
	}
	if id, err := uuid.Parse(raw); err == nil {
		return service.TaskRef{ID: id}, true
	}

	logger.Warn("HTTP: Неверное значение параметра",
		zap.String("param", "index"),
		zap.String("value", raw),
		zap.String("client_ip", r.RemoteAddr))
	responseWithError(w, http.StatusBadRequest, "index должен быть неотрицательным числом или UUID задачи")
	return service.TaskRef{}, false
}

func (h *CalendarHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	collection, err := h.Service.GetCollection(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	responseWithData(w, http.StatusOK, collection)
}

func (h *CalendarHandler) ReplaceCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var request dto.ReplaceCollectionRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	collection, err := h.Service.ReplaceCollection(r.Context(), userID, request.ToPatch())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	responseWithData(w, http.StatusOK, collection)
}

func (h *CalendarHandler) AddTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	day, ok := dayParam(w, r)
	if !ok {
		return
	}

	var request dto.AddTasksRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	texts := request.AllTexts()
	if len(texts) == 0 {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "texts"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "нужен text или непустой texts")
		return
	}

	indexes, err := h.Service.AddTasks(r.Context(), userID, day, texts, request.Options()...)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: Задачи добавлены",
		zap.Duration("ms", time.Since(start)),
		zap.Int("count", len(indexes)),
		zap.Int("http_status", http.StatusCreated))

	responseWithData(w, http.StatusCreated, dto.AddTasksResponse{Date: day, Indexes: indexes})
}

func (h *CalendarHandler) SetCompletion(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	ref, ok := taskRefParam(w, r)
	if !ok {
		return
	}

	var request dto.SetCompletionRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	if request.IsCompleted == nil {
		responseWithError(w, http.StatusBadRequest, "поле isCompleted обязательно")
		return
	}

	if err := h.Service.SetCompletion(r.Context(), userID, day, ref, *request.IsCompleted); err != nil {
		handleServiceError(w, r, err)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("date", day),
		toPayload("task", ref.String()),
		toPayload("isCompleted", *request.IsCompleted))
}

func (h *CalendarHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	ref, ok := taskRefParam(w, r)
	if !ok {
		return
	}

	removed, err := h.Service.DeleteTask(r.Context(), userID, day, ref)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("deleted", removed))
}

func (h *CalendarHandler) SetDayType(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	day, ok := dayParam(w, r)
	if !ok {
		return
	}

	var request dto.SetDayTypeRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if err := h.Service.SetDayType(r.Context(), userID, day, request.Type); err != nil {
		handleServiceError(w, r, err)
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("date", day), toPayload("type", request.Type))
}

func (h *CalendarHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var request dto.CategoryRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	added, err := h.Service.AddCategory(r.Context(), userID, request.Name)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	responseWithJSON(w, status, toPayload("name", request.Name), toPayload("added", added))
}

// categoryParam читает {name}. Если в пути есть RawPath, chi отдаёт сегмент
// в экранированном виде ("a%2Fb"), и его нужно раскодировать.
func categoryParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, true
	}

	unescaped, err := url.PathUnescape(name)
	if err != nil {
		logger.Warn("HTTP: Неверное значение параметра",
			zap.String("param", "name"),
			zap.String("value", name),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "некорректное имя категории")
		return "", false
	}
	return unescaped, true
}

func (h *CalendarHandler) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	name, ok := categoryParam(w, r)
	if !ok {
		return
	}

	removed, err := h.Service.RemoveCategory(r.Context(), userID, name)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("name", name), toPayload("removed", removed))
}

func (h *CalendarHandler) Coverage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	startKey, endKey := query.Get("start"), query.Get("end")
	start, startErr := calendar.ParseDayKey(startKey)
	end, endErr := calendar.ParseDayKey(endKey)
	if startErr != nil || endErr != nil {
		logger.Warn("HTTP: Неверный диапазон",
			zap.String("start", startKey),
			zap.String("end", endKey),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "start и end обязательны в формате YYYY-MM-DD")
		return
	}

	category := query.Get("category")
	coverage, err := h.Service.Coverage(r.Context(), userID, start, end, category)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	responseWithData(w, http.StatusOK, dto.FromCoverage(startKey, endKey, category, coverage))
}

func (h *CalendarHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var reference time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := calendar.ParseDayKey(raw)
		if err != nil {
			responseWithError(w, http.StatusBadRequest, "date должна быть в формате YYYY-MM-DD")
			return
		}
		reference = parsed
	}

	summary, err := h.Service.Summary(r.Context(), userID, reference)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	responseWithData(w, http.StatusOK, summary)
}

func (h *CalendarHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("error", err.Error()))
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}
