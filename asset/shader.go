package asset

import (
	"fmt"
	"strings"
)

// Shader holds shader source text. Stage blocks are introduced by a line
// of the form "#stage <name>"; text before the first marker belongs to
// every stage.
type Shader struct {
	Base

	Source string
}

// NewShader returns an unregistered shader.
func NewShader(source string) *Shader {
	return &Shader{Source: source}
}

// Stage returns the source of the named stage, with the shared prelude
// prepended. It returns false when the stage is absent.
func (s *Shader) Stage(name string) (string, bool) {
	var prelude, body strings.Builder
	current := ""
	found := false
	for line := range strings.Lines(s.Source) {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "#stage "); ok {
			current = strings.TrimSpace(rest)
			if current == name {
				found = true
			}
			continue
		}
		switch current {
		case "":
			prelude.WriteString(line)
		case name:
			body.WriteString(line)
		}
	}
	if !found {
		return "", false
	}
	return prelude.String() + body.String(), true
}

// ShaderLoader reads shader source files.
type ShaderLoader struct{}

// Version implements Loader.
func (ShaderLoader) Version() string { return "1.0.0" }

// Load implements Loader.
func (ShaderLoader) Load(_ *Library, _ string, data []byte) (Asset, error) {
	return &Shader{Source: string(data)}, nil
}

// Reload implements Reloader.
func (ShaderLoader) Reload(_ *Library, a Asset, data []byte) error {
	s, ok := a.(*Shader)
	if !ok {
		return fmt.Errorf("%w: %T is not a shader", ErrWrongLoader, a)
	}
	s.Source = string(data)
	return nil
}
