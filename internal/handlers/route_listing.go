package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"quizarena/internal/observability"

	"github.com/gin-gonic/gin"
)

// RouteInfo describes one registered route.
type RouteInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	HandlerName string `json:"handler_name"`
}

// RouteListingHandler serves the route index at the root path.
type RouteListingHandler struct {
	serviceName string
	routes      []RouteInfo
}

// NewRouteListingHandler creates a new route listing handler
func NewRouteListingHandler(serviceName string) *RouteListingHandler {
	return &RouteListingHandler{
		serviceName: serviceName,
		routes:      []RouteInfo{},
	}
}

// CollectRoutes snapshots the engine's routing table. Call after all routes
// are registered.
func (h *RouteListingHandler) CollectRoutes(engine *gin.Engine) {
	h.routes = h.routes[:0]

	for _, route := range engine.Routes() {
		if strings.HasPrefix(route.Path, "/debug/") {
			continue
		}
		h.routes = append(h.routes, RouteInfo{
			Method:      route.Method,
			Path:        route.Path,
			HandlerName: route.Handler,
		})
	}

	sort.Slice(h.routes, func(i, j int) bool {
		if h.routes[i].Path != h.routes[j].Path {
			return h.routes[i].Path < h.routes[j].Path
		}
		return h.routes[i].Method < h.routes[j].Method
	})
}

// GetRouteListingJSON returns the route listing as JSON
func (h *RouteListingHandler) GetRouteListingJSON(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "get_route_listing_json")
	defer observability.FinishSpan(span, nil)
	c.JSON(http.StatusOK, h.routes)
}

// GetRouteListingPage shows all available routes as HTML
func (h *RouteListingHandler) GetRouteListingPage(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "get_route_listing_page")
	defer observability.FinishSpan(span, nil)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.String(http.StatusOK, h.generateHTML())
}

func (h *RouteListingHandler) generateHTML() string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>` + h.serviceName + ` routes</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #212529; }
table { border-collapse: collapse; }
th, td { padding: 6px 14px; text-align: left; border-bottom: 1px solid #dee2e6; }
code { color: #6f42c1; }
</style>
</head>
<body>
<h1>` + h.serviceName + `</h1>
<p>` + fmt.Sprintf("%d routes", len(h.routes)) + ` | <a href="/?json=true">JSON</a></p>
<table>
<tr><th>Method</th><th>Path</th><th>Handler</th></tr>`)

	for _, route := range h.routes {
		path := route.Path
		if route.Method == http.MethodGet {
			path = `<a href="` + route.Path + `">` + route.Path + `</a>`
		}
		b.WriteString(fmt.Sprintf("\n<tr><td>%s</td><td><code>%s</code></td><td>%s</td></tr>",
			route.Method, path, route.HandlerName))
	}

	b.WriteString(`
</table>
</body>
</html>`)

	return b.String()
}
