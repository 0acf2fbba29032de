package hirfile

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Codec is a document serialization.
type Codec uint8

const (
	CodecTOML Codec = iota
	CodecYAML
	CodecMsgpack
)

func (c Codec) String() string {
	switch c {
	case CodecTOML:
		return "toml"
	case CodecYAML:
		return "yaml"
	case CodecMsgpack:
		return "msgpack"
	default:
		return fmt.Sprintf("Codec(%d)", c)
	}
}

// ErrUnknownCodec is returned for paths whose extension names no codec.
var ErrUnknownCodec = errors.New("unknown document extension")

// CodecFor picks the codec from a file extension.
func CodecFor(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return CodecTOML, nil
	case ".yaml", ".yml":
		return CodecYAML, nil
	case ".msgpack", ".mp":
		return CodecMsgpack, nil
	}
	return 0, fmt.Errorf("%q: %w (want .toml, .yaml, .yml, .msgpack or .mp)", path, ErrUnknownCodec)
}

// Decode reads one document. Unknown keys are errors in every codec.
func Decode(r io.Reader, codec Codec) (*Document, error) {
	var doc Document
	switch codec {
	case CodecTOML:
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case CodecYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	case CodecMsgpack:
		dec := msgpack.NewDecoder(r)
		dec.DisallowUnknownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("decode: %w: %s", ErrUnknownCodec, codec)
	}
	return &doc, nil
}

// Encode writes doc with the given codec.
func Encode(w io.Writer, doc *Document, codec Codec) error {
	switch codec {
	case CodecTOML:
		return toml.NewEncoder(w).Encode(doc)
	case CodecYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case CodecMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	}
	return fmt.Errorf("encode: %w: %s", ErrUnknownCodec, codec)
}
