package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/plasturgie/plasturgie/pkg/logger"
)

// unwrap returns the payload, looking through a {"data": ...} envelope.
func unwrap(body []byte) (gjson.Result, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return gjson.Result{}, false
	}
	if !gjson.ValidBytes(trimmed) {
		return gjson.Result{}, false
	}
	doc := gjson.ParseBytes(trimmed)
	if doc.IsObject() {
		if data := doc.Get("data"); data.Exists() {
			return data, true
		}
	}
	return doc, true
}

// decodeList decodes a collection. Records that do not decode or fail
// validation are dropped and logged; an empty body means no items.
func decodeList[T any](ctx context.Context, c *Client, body []byte) ([]T, error) {
	log := logger.FromContext(ctx)
	out := make([]T, 0)
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	doc, ok := unwrap(body)
	if !ok {
		return nil, fmt.Errorf("invalid JSON in list response")
	}
	if doc.Type == gjson.Null {
		return out, nil
	}
	if !doc.IsArray() {
		return nil, fmt.Errorf("unexpected list payload of type %s", doc.Type)
	}
	var dropped int
	doc.ForEach(func(_, raw gjson.Result) bool {
		var rec T
		if err := json.Unmarshal([]byte(raw.Raw), &rec); err != nil {
			dropped++
			log.Warn("dropping malformed record", "error", err)
			return true
		}
		if err := c.Validate(rec); err != nil {
			dropped++
			log.Warn("dropping invalid record", "error", err)
			return true
		}
		out = append(out, rec)
		return true
	})
	if dropped > 0 {
		log.Debug("list decoded with rejects", "kept", len(out), "dropped", dropped)
	}
	return out, nil
}

// decodeOne decodes and validates a single record.
func decodeOne[T any](c *Client, body []byte) (T, error) {
	var rec T
	doc, ok := unwrap(body)
	if !ok || !doc.IsObject() {
		return rec, fmt.Errorf("expected a JSON object in response")
	}
	if err := json.Unmarshal([]byte(doc.Raw), &rec); err != nil {
		return rec, fmt.Errorf("failed to decode response: %w", err)
	}
	if err := c.Validate(rec); err != nil {
		return rec, fmt.Errorf("invalid record in response: %w", err)
	}
	return rec, nil
}

// decodeOptional is decodeOne for write responses, which may carry a record
// or a generic success body. Anything but a valid record yields the zero value.
func decodeOptional[T any](ctx context.Context, c *Client, body []byte) T {
	rec, err := decodeOne[T](c, body)
	if err != nil {
		logger.FromContext(ctx).Debug("write response carried no record", "error", err)
		var zero T
		return zero
	}
	return rec
}
