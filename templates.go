package stepform

import (
	"io/fs"

	"github.com/goliatone/go-stepform/pkg/render"
)

// EmbeddedTemplates exposes the built-in review and error templates so callers
// can reuse or extend them without importing the render package directly.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}
