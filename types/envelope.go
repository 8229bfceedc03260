// Package types defines the data structures shared by the admin API client and the mock server.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CodeSuccess is the canonical success code carried by every envelope.
const CodeSuccess Code = "0"

// legacySuccess is accepted when decoding but never produced.
const legacySuccess Code = "200"

// Code is an envelope status code. It decodes from a JSON string or number.
type Code string

// UnmarshalJSON accepts both "0" and 0 style codes.
func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("envelope code: %w", err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*c = Code(strconv.FormatInt(i, 10))
		return nil
	}
	*c = Code(n.String())
	return nil
}

// IsSuccess reports whether the code signals success.
func (c Code) IsSuccess() bool {
	return c == CodeSuccess || c == legacySuccess
}

// Business error codes used by the mock server.
const (
	CodeClientError   Code = "A000001"
	CodeUnauthorized  Code = "A000401"
	CodeUserExists    Code = "A000111"
	CodeLoginFailed   Code = "A000112"
	CodeNotFound      Code = "B000404"
	CodeGroupNotEmpty Code = "B000201"
	CodeLinkExpired   Code = "B000301"
	CodeTooManyReqs   Code = "A000429"
	CodeServiceError  Code = "B000001"
)

// Envelope is the uniform wrapper returned by every API call.
type Envelope struct {
	Code      Code            `json:"code"`
	Message   string          `json:"message,omitempty"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"requestId,omitempty"`
	Success   bool            `json:"success"`
}

// OK reports whether the envelope carries a success code.
func (e Envelope) OK() bool {
	return e.Code.IsSuccess()
}

// Decode unmarshals the payload into out. A null or missing payload leaves out untouched.
func (e Envelope) Decode(out any) error {
	if out == nil || len(e.Data) == 0 || bytes.Equal(bytes.TrimSpace(e.Data), []byte("null")) {
		return nil
	}
	return json.Unmarshal(e.Data, out)
}
