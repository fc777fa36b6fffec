package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
)

type ActorID string

// Payload is a JSON-shaped mapping: values are strings, float64, bool, nil,
// []any or nested Payload-compatible maps.
type Payload map[string]any

type ActorReport struct {
	ActorID ActorID `json:"actor_id" yaml:"actor_id"`
	Payload Payload `json:"payload" yaml:"payload"`
}

func (r ActorReport) Validate() error {
	if strings.TrimSpace(string(r.ActorID)) == "" {
		return ErrMissingActorID
	}
	if err := r.Payload.Validate(); err != nil {
		return err
	}

	return nil
}

// Validate reports whether every value can be stored as JSON. NaN, infinities
// and values encoding/json refuses are rejected.
func (p Payload) Validate() error {
	for key, value := range p {
		if err := validateValue(value); err != nil {
			return fmt.Errorf("%w: key %q: %v", ErrUnencodablePayload, key, err)
		}
	}

	return nil
}

func validateValue(value any) error {
	switch v := value.(type) {
	case nil, string, bool:
		return nil
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case Payload:
		return v.Validate()
	case map[string]any:
		return Payload(v).Validate()
	case []any:
		for i, item := range v {
			if err := validateValue(item); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		return nil
	default:
		if _, err := json.Marshal(v); err != nil {
			return err
		}
		return nil
	}
}

func finite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("non-finite number %v", v)
	}
	return nil
}

// Normalized trims the actor id and deep-copies the payload.
func (r ActorReport) Normalized() ActorReport {
	return ActorReport{
		ActorID: ActorID(strings.TrimSpace(string(r.ActorID))),
		Payload: r.Payload.Clone(),
	}
}

func (p Payload) Clone() Payload {
	if p == nil {
		return Payload{}
	}

	cloned := make(Payload, len(p))
	for key, value := range p {
		cloned[key] = cloneValue(value)
	}

	return cloned
}

// cloneValue copies value into the JSON value model: numbers become float64
// and typed containers are re-decoded as map[string]any or []any.
func cloneValue(value any) any {
	switch v := value.(type) {
	case nil, string, bool, float64:
		return v
	case Payload:
		return map[string]any(v.Clone())
	case map[string]any:
		return map[string]any(Payload(v).Clone())
	case []any:
		cloned := make([]any, len(v))
		for i := range v {
			cloned[i] = cloneValue(v[i])
		}
		return cloned
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32:
		return rv.Float()
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return value
	}
	var decoded any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return value
	}
	return decoded
}

func (p Payload) String(key string) (string, bool) {
	raw, ok := p[key]
	if !ok {
		return "", false
	}

	value, ok := raw.(string)
	return value, ok
}

func (p Payload) Map(key string) (Payload, bool) {
	switch v := p[key].(type) {
	case Payload:
		return v, true
	case map[string]any:
		return Payload(v), true
	default:
		return nil, false
	}
}

func (r ActorReport) String() string {
	return fmt.Sprintf("report(%s, %d keys)", r.ActorID, len(r.Payload))
}
