package scene

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for line text.
var templateFuncs = sprig.TxtFuncMap()

// TextData is the data available to a line's text template.
type TextData struct {
	Scene   string
	Speaker string
	Vars    map[string]string
}

func parseText(text string) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return tmpl, nil
}

// checkText reports template syntax errors without executing the template.
func checkText(text string) error {
	_, err := parseText(text)
	return err
}

// ExpandText expands a line's text template. Text without template markers is
// returned unchanged.
func ExpandText(text string, data TextData) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := parseText(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}
