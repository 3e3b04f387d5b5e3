package template

import (
	"io"
)

// TemplateRenderer renders named templates with a map context. When writers
// are supplied the output is written to each of them as well.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
}
