package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	// WidgetURI is the output template clients render tool results with.
	WidgetURI      = "ui://kbeauty-skin-guide/widget.html"
	widgetMIMEType = "text/html+skybridge"
)

const widgetHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>K-Beauty Skin Guide</title></head>
<body>
<div id="root">K-Beauty Skin Guide</div>
<script>
  const data = (window.openai && window.openai.toolOutput) || {};
  document.getElementById("root").textContent = JSON.stringify(data, null, 2);
</script>
</body>
</html>
`

func (s *Server) registerWidget() {
	s.mcp.AddResource(mcp.NewResource(WidgetURI, "widget.html",
		mcp.WithResourceDescription("Widget that renders skin guide tool results"),
		mcp.WithMIMEType(widgetMIMEType),
	), func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      WidgetURI,
				MIMEType: widgetMIMEType,
				Text:     widgetHTML,
			},
		}, nil
	})
}
