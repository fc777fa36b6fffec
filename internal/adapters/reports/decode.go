// Package reports decodes actor report batches from JSON or YAML documents.
package reports

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/coremind/internal/domain"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrNotAList = errors.New("report batch is not a list")

type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

type Decoder struct {
	logger *zap.Logger
}

func NewDecoder(logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Decoder{logger: logger.Named("reports")}
}

// DecodeFile reads a batch from path. "-" reads from stdin.
func (d *Decoder) DecodeFile(path string, stdin io.Reader) ([]domain.ActorReport, error) {
	if path == "-" {
		return d.Decode(stdin, FormatAuto)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report batch: %w", err)
	}
	defer func() { _ = f.Close() }()

	return d.Decode(f, FormatForPath(path))
}

// Decode parses a batch. Items that are not objects, or that carry a
// non-mapping payload, are dropped with a warning. A document that is not a
// list fails as a whole.
func (d *Decoder) Decode(r io.Reader, format Format) ([]domain.ActorReport, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read report batch: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []domain.ActorReport{}, nil
	}

	if format == FormatAuto {
		format = sniff(raw)
	}

	var doc any
	switch format {
	case FormatJSON:
		err = json.Unmarshal(raw, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(raw, &doc)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s report batch: %w", format, err)
	}

	items, ok := normalize(doc).([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotAList, doc)
	}

	batch := make([]domain.ActorReport, 0, len(items))
	for i, item := range items {
		report, err := toReport(item)
		if err != nil {
			d.logger.Warn("dropping malformed report item", zap.Int("index", i), zap.Error(err))
			continue
		}
		batch = append(batch, report)
	}

	return batch, nil
}

func sniff(raw []byte) Format {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') && json.Valid(trimmed) {
		return FormatJSON
	}
	return FormatYAML
}

func toReport(item any) (domain.ActorReport, error) {
	object, ok := item.(map[string]any)
	if !ok {
		return domain.ActorReport{}, fmt.Errorf("item is %T, not an object", item)
	}

	var report domain.ActorReport
	switch id := object["actor_id"].(type) {
	case string:
		report.ActorID = domain.ActorID(id)
	case nil:
	default:
		return domain.ActorReport{}, fmt.Errorf("actor_id is %T, not a string", id)
	}

	switch payload := object["payload"].(type) {
	case map[string]any:
		report.Payload = domain.Payload(payload)
	case nil:
		report.Payload = domain.Payload{}
	default:
		return domain.ActorReport{}, fmt.Errorf("payload is %T, not a mapping", payload)
	}

	return report, nil
}

// normalize folds YAML values into the JSON value model so both formats
// produce identical payloads.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return v
	}
}
