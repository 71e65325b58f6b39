package fetch

import (
	"errors"
	"fmt"
)

// Временные статусы: можно повторить запрос, не меняя его.
var transientStatus = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// StatusError — ответ пришёл, но статус не 2xx. Тело сохраняем для диагностики.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.URL, e.StatusCode, e.Body)
}

// Transient сообщает, имеет ли смысл повторять запрос.
func (e *StatusError) Transient() bool {
	return transientStatus[e.StatusCode]
}

// NetworkError — транспортная ошибка (соединение, таймаут попытки).
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError — статус 2xx, но тело не является корректным JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrTooLarge возвращается при превышении лимита размера скачиваемого файла.
var ErrTooLarge = errors.New("response body exceeds size limit")

// IsTransient: сетевые ошибки и статусы из transientStatus ретраим,
// всё остальное — терминально.
func IsTransient(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Transient()
	}
	return false
}
