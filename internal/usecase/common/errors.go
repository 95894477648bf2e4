package common

import "errors"

var (
	// ErrLoadSnapshot возвращается, если не удалось прочитать данные профессионала
	ErrLoadSnapshot = errors.New("common: failed to load snapshot")

	// ErrLoadPolicy возвращается, если не удалось прочитать политику бронирования
	ErrLoadPolicy = errors.New("common: failed to load booking policy")
)
