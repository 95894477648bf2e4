package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/bookingrules"
)

const (
	msgInternalError = "внутренняя ошибка сервера"

	// maxBodyBytes ограничение размера тела запроса
	maxBodyBytes = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError отправляет ошибку с указанным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondBookingRejection отвечает на отказ правил бронирования.
// Конфликт по времени отдается как 409, остальные причины как 422.
// Код причины передается в поле code.
func RespondBookingRejection(w http.ResponseWriter, kind bookingrules.ErrorKind, message string) {
	status := http.StatusUnprocessableEntity
	if kind == bookingrules.KindTimeConflict {
		status = http.StatusConflict
	}
	RespondJSON(w, status, ErrorResponse{Code: string(kind), Message: message})
}

// BookingRejectionMessage текст для пользователя по причине отказа
func BookingRejectionMessage(kind bookingrules.ErrorKind) string {
	switch kind {
	case bookingrules.KindPastDate:
		return "нельзя записаться на прошедшее время"
	case bookingrules.KindOutsideBusinessHours:
		return "выбранное время вне рабочих часов"
	case bookingrules.KindSlotUnavailable:
		return "выбранное время заблокировано"
	case bookingrules.KindTimeConflict:
		return "выбранное время уже занято"
	default:
		return "запись невозможна"
	}
}

// DecodeJSON декодирует тело запроса, неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("empty body")
	}
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
