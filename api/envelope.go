package api

import (
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// envelope is the wrapper around every API response. Data stays raw until the
// message check has run.
type envelope struct {
	Success *bool           `json:"success"`
	Error   *string         `json:"error"`
	Message *string         `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Decode unwraps an API response body into T.
//
// A message in the envelope fails the call with *APIError even when success is
// true and data is valid. Any other failure matches ErrInvalidResponse.
func Decode[T any](body []byte) (T, error) {
	var zero T

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, invalid(errors.Wrap(err, "envelope"))
	}
	if env.Success == nil {
		return zero, invalid(errors.New("envelope: missing success"))
	}
	if env.Message != nil {
		apiErr := &APIError{Message: *env.Message}
		if env.Error != nil {
			apiErr.Code = *env.Error
		}
		return zero, apiErr
	}
	if s := shapeOf(env.Data); s == shapeMissing || s == shapeNull {
		return zero, invalid(errors.New("envelope: missing data"))
	}

	var data T
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return zero, invalid(errors.Wrap(err, "data"))
	}
	return data, nil
}

// DecodeGameList decodes the response of /v1/games/{category}.
func DecodeGameList(body []byte) ([]GameID, error) {
	return Decode[[]GameID](body)
}

// DecodeGameDetails decodes the response of /v1/game/{ids}/info. Keys are the
// ids as decimal strings.
func DecodeGameDetails(body []byte) (map[string]GameInfo, error) {
	return Decode[map[string]GameInfo](body)
}

// DecodeGameInfo decodes a bare game object, outside any envelope.
func DecodeGameInfo(raw []byte) (GameInfo, error) {
	if err := requireFields("game", raw, gameInfoRequired...); err != nil {
		return GameInfo{}, invalid(err)
	}
	var g GameInfo
	if err := json.Unmarshal(raw, &g); err != nil {
		return GameInfo{}, invalid(err)
	}
	return g, nil
}
