package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lineCode/import-weapp-component/internal/domain"
	"github.com/lineCode/import-weapp-component/internal/utils"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Parse decodes manifest content. A byte order mark is tolerated and UTF-16
// content carrying one is converted. Any other failure wraps ErrInvalidFormat.
func Parse(data []byte) (*Manifest, error) {
	data, err := Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if !json.Valid(data) {
		var v interface{}
		err := json.Unmarshal(data, &v)
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	m := &Manifest{}

	// Arrays, strings and numbers are valid JSON without any keys.
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return m, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	raw, ok := top[UsingComponentsKey]
	if !ok {
		return m, nil
	}
	components, err := decodeComponents(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	m.UsingComponents = components
	return m, nil
}

// Normalize strips a UTF-8 BOM and transcodes BOM-marked UTF-16 to UTF-8.
// Content without a BOM passes through as UTF-8.
func Normalize(data []byte) ([]byte, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	return out, err
}

// decodeComponents walks the usingComponents object token by token so that
// declaration order survives. Non-object values yield no components and
// non-string entries are skipped.
func decodeComponents(raw json.RawMessage) (Components, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var components Components
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		var ref string
		if err := json.Unmarshal(value, &ref); err != nil {
			continue
		}
		components.set(name, ref)
	}
	return components, nil
}

// Reader reads manifests and reports problems instead of returning them
type Reader struct {
	fs     afero.Fs
	logger *utils.Logger
}

// NewReader creates a manifest reader. A nil fs reads the OS filesystem and a
// nil logger disables logging.
func NewReader(fs afero.Fs, logger *utils.Logger) *Reader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Reader{
		fs:     fs,
		logger: logger.WithComponent("manifest"),
	}
}

// Load reads and parses the manifest file at path
func (r *Reader) Load(path string) (*Manifest, error) {
	exists, err := afero.Exists(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat manifest file: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	return Parse(data)
}

// ReadUsingComponents extracts usingComponents from manifest content. On
// malformed content it reports "<label> is not json" and returns nothing.
func (r *Reader) ReadUsingComponents(data []byte, label string, sink domain.ErrorSink) Components {
	m, err := Parse(data)
	if err != nil {
		r.logger.Debug().Err(err).Str("manifest", label).Msg("Manifest is not valid JSON")
		sink.Report(domain.NewManifestError(label, domain.ErrNotJSON))
		return Components{}
	}
	if m.UsingComponents == nil {
		return Components{}
	}
	return m.UsingComponents
}

// ReadUsingComponentsFromFile extracts usingComponents from the manifest at
// path. A missing file reports "<path> not exist component".
func (r *Reader) ReadUsingComponentsFromFile(path string, sink domain.ErrorSink) Components {
	exists, err := afero.Exists(r.fs, path)
	if err != nil || !exists {
		sink.Report(domain.NewManifestError(path, domain.ErrComponentNotExist))
		return Components{}
	}

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		sink.Report(fmt.Errorf("failed to read manifest %s: %w", path, err))
		return Components{}
	}

	return r.ReadUsingComponents(data, path, sink)
}
