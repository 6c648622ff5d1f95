// Package filerepo serves property sources from YAML files in one directory.
package filerepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"edgemesh/configserver/domain"
	"edgemesh/configserver/interfaces"
	"edgemesh/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"
)

var extensions = []string{".yml", ".yaml"}

type repository struct {
	dir    string
	logger log.Logger
}

// New creates a Repository over dir. Files are read on every Find, so edits are picked up without a
// restart. Panics on empty dir or nil logger.
func New(dir string, logger log.Logger) interfaces.Repository {
	logger = helpers.NilPanic(logger, "filerepo.repository.go: logger is required")
	return &repository{
		dir:    helpers.StrPanic(dir, "filerepo.repository.go: dir is required"),
		logger: log.With(logger, "component", "FileRepository"),
	}
}

// Find loads every existing file of domain.SourceNames. Missing files are skipped; an unknown service
// yields only the shared sources.
//
// Returns: the environment; domain.ErrInvalidName for unsafe names; a wrapped parse error naming
// the file when a source is not a YAML mapping.
func (r *repository) Find(ctx context.Context, service string, profiles []string) (domain.Environment, error) {
	if err := domain.ValidateName(service); err != nil {
		return domain.Environment{}, err
	}
	for _, p := range profiles {
		if err := domain.ValidateName(p); err != nil {
			return domain.Environment{}, err
		}
	}

	env := domain.Environment{
		Name:            service,
		Profiles:        profiles,
		PropertySources: []domain.PropertySource{},
	}
	version := domain.NewVersion()
	for _, name := range domain.SourceNames(service, profiles) {
		if err := ctx.Err(); err != nil {
			return domain.Environment{}, err
		}
		file, raw, ok, err := r.read(name)
		if err != nil {
			return domain.Environment{}, err
		}
		if !ok {
			continue
		}
		props, err := Flatten(raw)
		if err != nil {
			level.Warn(r.logger).Log("msg", "invalid property file", "file", file, "err", err)
			return domain.Environment{}, fmt.Errorf("parse %s: %w", file, err)
		}
		version.Add(file, raw)
		env.PropertySources = append(env.PropertySources, domain.PropertySource{Name: file, Source: props})
	}
	env.Version = version.String()
	return env, nil
}

// read returns the first existing {name}.yml or {name}.yaml.
func (r *repository) read(name string) (string, []byte, bool, error) {
	for _, ext := range extensions {
		file := name + ext
		raw, err := os.ReadFile(filepath.Join(r.dir, file))
		if err == nil {
			return file, raw, true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, false, fmt.Errorf("read %s: %w", file, err)
		}
	}
	return "", nil, false, nil
}

// Flatten turns a YAML mapping into dotted keys: nested maps join with ".", sequence items get
// "[i]" suffixes, scalars keep their source text and null becomes "". An empty document is an empty map.
func Flatten(raw []byte) (map[string]string, error) {
	out := map[string]string{}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return out, nil
	}
	root := resolveAlias(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return out, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping, got %s", kindName(root.Kind))
	}
	flattenNode("", root, out)
	return out, nil
}

func flattenNode(prefix string, n *yaml.Node, out map[string]string) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		// "<<" merges go first so explicit keys override them.
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Tag != "!!merge" {
				continue
			}
			merged := resolveAlias(n.Content[i+1])
			if merged.Kind == yaml.SequenceNode {
				for _, m := range merged.Content {
					flattenNode(prefix, m, out)
				}
				continue
			}
			flattenNode(prefix, merged, out)
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Tag == "!!merge" {
				continue
			}
			key := n.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			flattenNode(key, n.Content[i+1], out)
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			flattenNode(prefix+"["+strconv.Itoa(i)+"]", item, out)
		}
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			out[prefix] = ""
			return
		}
		out[prefix] = n.Value
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "node kind " + strconv.Itoa(int(k))
	}
}
