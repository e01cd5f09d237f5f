package view

import (
	"github.com/gin-gonic/gin"
)

// Data is the payload handed to the template layer: view variable name to
// value. Handlers build it; they never touch markup.
type Data map[string]interface{}

// Renderer is the boundary to the external template engine. Handlers hand
// over a view name and a payload and assume nothing about the output
// beyond "renders HTML from this payload".
type Renderer interface {
	HTML(c *gin.Context, status int, name string, data Data)
}

// ginRenderer renders through gin's HTML renderer (templates loaded on the
// engine with LoadHTMLGlob or a custom HTMLRender).
type ginRenderer struct{}

// NewGinRenderer returns a Renderer backed by the gin engine's templates.
func NewGinRenderer() Renderer {
	return &ginRenderer{}
}

func (r *ginRenderer) HTML(c *gin.Context, status int, name string, data Data) {
	c.HTML(status, name, map[string]interface{}(data))
}
