package command

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FieldType describes input type.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldBool
	FieldID
	FieldTime
	FieldStringList
	FieldJSON
	FieldFile
	FieldSecret
)

// Field defines a console input field.
type Field struct {
	Name     string
	Aliases  []string
	Prompt   string
	Type     FieldType
	Required bool
}

// Command defines a console command. Action is empty for single-word
// commands such as login.
type Command struct {
	Service      string
	Action       string
	Summary      string
	RequiresAuth bool
	Fields       []Field
}

// Key is the registry key, "service action" or "service".
func (c Command) Key() string {
	if c.Action == "" {
		return c.Service
	}
	return c.Service + " " + c.Action
}

// Usage renders the command with its fields.
func (c Command) Usage() string {
	var b strings.Builder
	b.WriteString(c.Key())
	for _, f := range c.Fields {
		if f.Required {
			fmt.Fprintf(&b, " %s=", f.Name)
		} else {
			fmt.Fprintf(&b, " [%s=]", f.Name)
		}
	}
	return b.String()
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

// ParseParams reads key=value tokens.
func ParseParams(tokens []string) (Params, error) {
	params := Params{}
	for _, token := range tokens {
		parts := strings.SplitN(token, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid param: %s", token)
		}
		params.Set(parts[0], parts[1])
	}
	return params, nil
}

// Validate rejects unknown params and values that do not fit the field type.
func Validate(cmd Command, params Params) error {
	known := make(map[string]Field, len(cmd.Fields))
	for _, f := range cmd.Fields {
		known[strings.ToLower(f.Name)] = f
	}
	for key, value := range params {
		f, ok := known[key]
		if !ok {
			return fmt.Errorf("unknown param %q for %s", key, cmd.Key())
		}
		if value == "" {
			continue
		}
		switch f.Type {
		case FieldInt:
			if _, err := ParseInt(value); err != nil {
				return fmt.Errorf("invalid %s: %w", f.Name, err)
			}
		case FieldJSON:
			if _, err := ParseJSON(value); err != nil {
				return fmt.Errorf("invalid %s: %w", f.Name, err)
			}
		case FieldFile:
			if _, err := os.Stat(value); err != nil {
				return fmt.Errorf("invalid %s: %w", f.Name, err)
			}
		}
	}
	return nil
}

// Missing lists required fields without a value.
func Missing(cmd Command, params Params) []Field {
	var out []Field
	for _, f := range cmd.Fields {
		if f.Required && strings.TrimSpace(params.Get(f.Name)) == "" {
			out = append(out, f)
		}
	}
	return out
}

func ParseInt(value string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	return int(n), err
}

func ParseStringList(value string) []string {
	raw := strings.Split(value, ",")
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file failed: %w", err)
	}
	return string(data), nil
}

func ParseJSON(value string) (json.RawMessage, error) {
	raw := strings.TrimSpace(value)
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("invalid json content")
	}
	return json.RawMessage(raw), nil
}
