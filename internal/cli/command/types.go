package command

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FieldType describes input type.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt64
	FieldFile
)

// Field defines a CLI input field.
type Field struct {
	Name     string
	Aliases  []string
	Prompt   string
	Type     FieldType
	Required bool
}

// Command defines a CLI command binding. RequiresRole gates commands the
// back office reserves for privileged accounts; RequiresAuth merely needs a
// signed-in session.
type Command struct {
	Service      string
	Action       string
	Summary      string
	RequiresAuth bool
	RequiresRole string
	Fields       []Field
}

// Key returns the registry key, "service action".
func (c Command) Key() string {
	return fmt.Sprintf("%s %s", c.Service, c.Action)
}

// Params holds parsed input params.
type Params map[string]string

func (p Params) Get(key string) string {
	return p[strings.ToLower(key)]
}

func (p Params) Set(key, value string) {
	p[strings.ToLower(key)] = value
}

func (p Params) Has(key string) bool {
	_, ok := p[strings.ToLower(key)]
	return ok
}

// Canonicalize folds field aliases onto their canonical names.
func (p Params) Canonicalize(fields []Field) {
	for _, field := range fields {
		for _, alias := range field.Aliases {
			aliasKey := strings.ToLower(alias)
			if value, ok := p[aliasKey]; ok {
				p[strings.ToLower(field.Name)] = value
				delete(p, aliasKey)
			}
		}
	}
}

// Int64 parses an int64 param, 0 when absent.
func (p Params) Int64(key string) (int64, error) {
	raw := p.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// Int parses an int param, 0 when absent.
func (p Params) Int(key string) (int, error) {
	n, err := p.Int64(key)
	return int(n), err
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file failed: %w", err)
	}
	return string(data), nil
}
