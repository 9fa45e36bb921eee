package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// WithYAML parses a YAML document and loads it as translations for lang and namespace.
func WithYAML(lang, namespace string, data []byte) Option {
	return func(i *I18n) error {
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return errors.Join(ErrInvalidFile, fmt.Errorf("%s: %w", lang, err))
		}
		return WithTranslations(lang, namespace, tree)(i)
	}
}

// WithFS loads every "<lang>.yaml" (or .yml) file found in dir of fsys into namespace.
// The file name without extension is the language code.
func WithFS(fsys fs.FS, dir, namespace string) Option {
	return func(i *I18n) error {
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return fmt.Errorf("read translations dir: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := path.Ext(entry.Name())
			if ext != ".yaml" && ext != ".yml" {
				continue
			}

			data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
			if err != nil {
				return fmt.Errorf("read %s: %w", entry.Name(), err)
			}

			lang := strings.TrimSuffix(entry.Name(), ext)
			if err := WithYAML(lang, namespace, data)(i); err != nil {
				return err
			}
		}
		return nil
	}
}
