package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ResultRecord is one row of backend data. Keys may be localized (站名) or
// transliterated (name) for the same field, or missing altogether.
type ResultRecord map[string]any

// Text returns the value stored under key as display text. The second
// result is false when the key is absent, null or an empty string.
func (r ResultRecord) Text(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}

	var s string
	switch val := v.(type) {
	case string:
		s = val
	case json.Number:
		s = val.String()
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		s = strconv.Itoa(val)
	case bool:
		s = strconv.FormatBool(val)
	default:
		s = fmt.Sprint(val)
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// Response is the JSON envelope returned by both hydrology endpoints.
// The stations endpoint fills Success and Data, the reservoir endpoint
// fills ErrCode and Data.
//
// The reservoir endpoint relays an upstream body as is, so decoding is
// lenient: a field of an unexpected JSON type is left unset instead of
// failing, and the success rules decide what an odd envelope means.
type Response struct {
	Success *bool          `json:"success,omitempty"`
	ErrCode *int           `json:"errCode,omitempty"`
	Data    []ResultRecord `json:"data"`
	Error   string         `json:"error,omitempty"`
}

type rawResponse struct {
	Success json.RawMessage `json:"success"`
	ErrCode json.RawMessage `json:"errCode"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

// UnmarshalJSON decodes an envelope of any shape. Only malformed JSON is
// an error. ErrCode is set for integral numbers only, so "0" (a string)
// does not count as errCode 0. Data is set only when it is an array, and
// array items that are not objects become empty records.
func (r *Response) UnmarshalJSON(b []byte) error {
	*r = Response{}

	var raw rawResponse
	if err := json.Unmarshal(b, &raw); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return err
		}
		// Valid JSON that is not an object carries no envelope fields
		return nil
	}

	var success any
	if decodeNumber(raw.Success, &success) == nil {
		if b, ok := success.(bool); ok {
			r.Success = &b
		}
	}

	var code any
	if decodeNumber(raw.ErrCode, &code) == nil {
		if n, ok := code.(json.Number); ok {
			if f, err := n.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
				c := int(f)
				r.ErrCode = &c
			}
		}
	}

	var items []json.RawMessage
	if json.Unmarshal(raw.Data, &items) == nil && items != nil {
		r.Data = make([]ResultRecord, len(items))
		for i, item := range items {
			var rec ResultRecord
			if decodeNumber(item, &rec) != nil || rec == nil {
				rec = ResultRecord{}
			}
			r.Data[i] = rec
		}
	}

	var msg string
	if json.Unmarshal(raw.Error, &msg) == nil {
		r.Error = msg
	} else if len(raw.Error) > 0 && string(raw.Error) != "null" {
		r.Error = string(raw.Error)
	}
	return nil
}

// decodeNumber unmarshals b keeping numbers as json.Number
func decodeNumber(b json.RawMessage, v any) error {
	if len(b) == 0 {
		return errors.New("no value")
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(v)
}
