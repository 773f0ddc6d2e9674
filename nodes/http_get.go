package nodes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ddbase3/MissionBay-sub002/component"
	"github.com/ddbase3/MissionBay-sub002/config"
	"github.com/ddbase3/MissionBay-sub002/errors"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPGetNode fetches a URL and emits the response body and status code.
// A shared *HTTPClient resource may be docked on the "client" port;
// without one the node falls back to its own client.
type HTTPGetNode struct {
	client *http.Client
}

// NewHTTPGetNode creates an HTTPGetNode with a default client.
func NewHTTPGetNode(deps component.Dependencies) (*HTTPGetNode, error) {
	return &HTTPGetNode{client: &http.Client{Timeout: defaultHTTPTimeout}}, nil
}

// TypeName returns the registry type name.
func (n *HTTPGetNode) TypeName() string { return "http_get" }

// InputPorts describes the node inputs.
func (n *HTTPGetNode) InputPorts() []component.Port {
	return []component.Port{
		{Name: "url", Description: "URL to fetch", Type: "string", Required: true},
		{Name: "headers", Description: "optional request headers", Type: "object"},
	}
}

// OutputPorts describes the node outputs.
func (n *HTTPGetNode) OutputPorts() []component.Port {
	return []component.Port{
		{Name: "body", Description: "response body", Type: "string"},
		{Name: "status", Description: "HTTP status code", Type: "number"},
	}
}

// DockPorts declares the optional shared client dock.
func (n *HTTPGetNode) DockPorts() []component.DockPort {
	return []component.DockPort{
		{Name: "client", Description: "shared HTTP client", MaxResources: 1},
	}
}

// SetConfig applies node configuration.
func (n *HTTPGetNode) SetConfig(cfg map[string]any) error {
	if secs := config.GetInt(cfg, "timeout_seconds", 0); secs > 0 {
		n.client.Timeout = time.Duration(secs) * time.Second
	}
	return nil
}

// Execute performs the GET request.
func (n *HTTPGetNode) Execute(ctx context.Context, inputs map[string]any, resources map[string][]any, run component.RunContext) (map[string]any, error) {
	url, _ := inputs["url"].(string)
	if url == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingInput, "HTTPGetNode", "Execute", "read url input")
	}

	client := n.client
	for _, r := range resources["client"] {
		if hc, ok := r.(*HTTPClient); ok && hc.Client != nil {
			client = hc.Client
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapInvalid(err, "HTTPGetNode", "Execute", "build request")
	}
	if headers, ok := inputs["headers"].(map[string]any); ok {
		for k, v := range headers {
			req.Header.Set(k, fmt.Sprintf("%v", v))
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.WrapTransient(err, "HTTPGetNode", "Execute", "perform request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapTransient(err, "HTTPGetNode", "Execute", "read response body")
	}

	return map[string]any{
		"body":   string(body),
		"status": resp.StatusCode,
	}, nil
}
