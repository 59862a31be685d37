package fetcher

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// DecodeJSONObject decodes a single JSON object from a reader.
func DecodeJSONObject[T any](r io.Reader) (*T, error) {
	var obj T
	if err := json.NewDecoder(r).Decode(&obj); err != nil {
		return nil, eris.Wrap(err, "json: decode object")
	}
	return &obj, nil
}

// GetJSON downloads url and decodes the body into T.
func GetJSON[T any](ctx context.Context, f Fetcher, url string, opts ...RequestOption) (*T, error) {
	body, err := f.Download(ctx, url, opts...)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	return DecodeJSONObject[T](body)
}

// GetRaw downloads url and returns the body as raw JSON, rejecting bodies
// that are not valid JSON.
func GetRaw(ctx context.Context, f Fetcher, url string, opts ...RequestOption) (json.RawMessage, error) {
	body, err := f.Download(ctx, url, opts...)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrap(err, "json: read body")
	}
	if !json.Valid(data) {
		return nil, eris.Errorf("json: invalid document from %s", url)
	}
	return json.RawMessage(data), nil
}
