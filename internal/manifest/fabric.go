package manifest

import (
	"archive/zip"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/alexisbeaulieu97/splinter/internal/plugin"
)

// FabricEntry is the metadata file name inside fabric and quilt-compatible jars.
const FabricEntry = "fabric.mod.json"

//go:embed fabric.schema.json
var fabricSchemaData string

var (
	fabricSchemaOnce sync.Once
	fabricSchema     *jsonschema.Schema
	fabricSchemaErr  error
)

func fabricSchemaInstance() (*jsonschema.Schema, error) {
	fabricSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("fabric.schema.json", strings.NewReader(fabricSchemaData)); err != nil {
			fabricSchemaErr = fmt.Errorf("failed to add fabric schema resource: %w", err)
			return
		}
		fabricSchema, fabricSchemaErr = compiler.Compile("fabric.schema.json")
	})
	return fabricSchema, fabricSchemaErr
}

type fabricManifest struct {
	ID       string         `mapstructure:"id"`
	Version  string         `mapstructure:"version"`
	Name     string         `mapstructure:"name"`
	Provides []string       `mapstructure:"provides"`
	Depends  map[string]any `mapstructure:"depends"`
	Jars     []fabricJar    `mapstructure:"jars"`
}

type fabricJar struct {
	File string `mapstructure:"file"`
}

// parseFabric validates and decodes a fabric.mod.json document.
func parseFabric(data []byte) (*fabricManifest, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", FabricEntry, err)
	}

	schema, err := fabricSchemaInstance()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			var messages []string
			collectErrors(validationErr, &messages)
			return nil, fmt.Errorf("%s failed schema validation:\n%s", FabricEntry, strings.Join(messages, "\n"))
		}
		return nil, fmt.Errorf("%s failed schema validation: %w", FabricEntry, err)
	}

	var out fabricManifest
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &out})
	if err != nil {
		return nil, fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", FabricEntry, err)
	}
	return &out, nil
}

func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if err.InstanceLocation != "" || len(err.Causes) == 0 {
		*messages = append(*messages, fmt.Sprintf("- %s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}

// readFabric builds a record from the fabric metadata inside zr, descending
// into bundled jars. It returns fs.ErrNotExist when zr has no fabric.mod.json.
func (r *Reader) readFabric(zr *zip.Reader, where string) (*plugin.Record, error) {
	data, err := readEntry(zr, FabricEntry)
	if err != nil {
		return nil, err
	}
	meta, err := parseFabric(data)
	if err != nil {
		return nil, err
	}

	rec := &plugin.Record{
		ID:        meta.ID,
		Name:      meta.Name,
		Provides:  meta.Provides,
		DependsOn: sortedKeys(meta.Depends),
	}

	for _, jar := range meta.Jars {
		inner, err := r.readNested(zr, jar.File)
		if err != nil {
			r.log.WithFields(map[string]any{"archive": where, "jar": jar.File}).Error(err, "failed to read bundled jar")
			continue
		}
		rec.Contains = append(rec.Contains, *inner)
	}
	return rec, nil
}

func (r *Reader) readNested(zr *zip.Reader, name string) (*plugin.Record, error) {
	data, err := readEntry(zr, name)
	if err != nil {
		return nil, err
	}
	inner, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open bundled jar: %w", err)
	}
	r.log.With("jar", name).Debug("loading bundled plugin")
	return r.readFabric(inner, name)
}

func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
