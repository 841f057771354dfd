package req

import (
	"encoding/json"
	"errors"
	"io"
)

// Максимальный размер тела запроса
const maxBodySize = 1 << 20

// Decode - разбор JSON тела запроса в T. Неизвестные поля считаются ошибкой
func Decode[T any](body io.Reader) (T, error) {
	var payload T

	dec := json.NewDecoder(io.LimitReader(body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return payload, err
	}
	if dec.More() {
		return payload, errors.New("unexpected data after json body")
	}

	return payload, nil
}
