package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
)

// StateKey is the transfer state entry holding the resolved Settings.
const StateKey = "app-settings"

// TransferState is a key/value JSON document computed during the server
// render and handed to the browser pass.
type TransferState struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

// NewTransferState creates an empty document.
func NewTransferState() *TransferState {
	return &TransferState{values: make(map[string]json.RawMessage)}
}

// DecodeTransferState parses a document produced by Encode. An empty input
// yields an empty document.
func DecodeTransferState(data string) (*TransferState, error) {
	ts := NewTransferState()
	if len(bytes.TrimSpace([]byte(data))) == 0 {
		return ts, nil
	}
	if err := json.Unmarshal([]byte(data), &ts.values); err != nil {
		return NewTransferState(), fmt.Errorf("%w: %w", ErrMalformedState, err)
	}
	if ts.values == nil {
		ts.values = make(map[string]json.RawMessage)
	}
	return ts, nil
}

// Get decodes the value stored under key into dst and reports whether it
// was present and decodable.
func (ts *TransferState) Get(key string, dst any) bool {
	ts.mu.RLock()
	raw, ok := ts.values[key]
	ts.mu.RUnlock()
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// Set stores v under key.
func (ts *TransferState) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ts.mu.Lock()
	ts.values[key] = raw
	ts.mu.Unlock()
	return nil
}

// Has reports whether key is present.
func (ts *TransferState) Has(key string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	_, ok := ts.values[key]
	return ok
}

// Remove deletes key.
func (ts *TransferState) Remove(key string) {
	ts.mu.Lock()
	delete(ts.values, key)
	ts.mu.Unlock()
}

// Encode returns the document as JSON that is safe inside a
// <script type="application/json"> element or an HTML attribute:
// <, >, &, U+2028 and U+2029 are escaped.
func (ts *TransferState) Encode() (string, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(ts.values); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
