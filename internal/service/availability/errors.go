package availability

import "errors"

var (
	// ErrExceptionNotFound возвращается, когда исключение не найдено
	ErrExceptionNotFound = errors.New("exception not found")

	// ErrAccessDenied возвращается, когда исключение принадлежит другому профессионалу
	ErrAccessDenied = errors.New("access denied")

	// ErrExceptionConflict возвращается, когда блокировка пересекается с уже существующей
	ErrExceptionConflict = errors.New("exception overlaps an existing blocked exception")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
