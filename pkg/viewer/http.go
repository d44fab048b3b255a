package viewer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/teslashibe/go-cinematic/internal/httpc"
	"github.com/teslashibe/go-cinematic/pkg/movement"
)

// DefaultRequestTimeout bounds one pose or bounds request. Poses are sent once
// per frame, so a stuck viewer must fail fast.
const DefaultRequestTimeout = 500 * time.Millisecond

// ErrRejected is returned when the viewer answers success=false.
var ErrRejected = errors.New("viewer: request rejected")

// HTTPClient implements movement.PoseSink and movement.BoundsProvider using
// the worldviewer HTTP API.
type HTTPClient struct {
	BaseURL string
	Timeout time.Duration

	client *http.Client
}

// NewHTTPClient creates a client for the viewer at baseURL
// (e.g. "http://localhost:8900").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: DefaultRequestTimeout,
		client:  httpc.Client,
	}
}

// ApplyPose moves the viewer camera.
func (c *HTTPClient) ApplyPose(p movement.Pose) error {
	ctx, cancel := c.context()
	defer cancel()

	var res apiResult
	if err := httpc.PostJSON(ctx, c.client, c.BaseURL+"/camera/set_position", newSetPosition(p), &res); err != nil {
		return fmt.Errorf("set_position: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("%w: set_position: %s", ErrRejected, res.Error)
	}
	return nil
}

// ObjectBounds looks up the world-space bounding box of the prim at ref.
func (c *HTTPClient) ObjectBounds(ref string) (movement.BoundingBox, error) {
	ctx, cancel := c.context()
	defer cancel()

	q := url.Values{}
	q.Set("usd_path", ref)
	q.Set("calculation_mode", "bounds")

	var res assetTransform
	if err := httpc.GetJSON(ctx, c.client, c.BaseURL+"/get_asset_transform?"+q.Encode(), &res); err != nil {
		return movement.BoundingBox{}, fmt.Errorf("get_asset_transform: %w", err)
	}
	if !res.Success {
		return movement.BoundingBox{}, fmt.Errorf("%w: get_asset_transform %s: %s", ErrRejected, ref, res.Error)
	}
	return res.box(), nil
}

func (c *HTTPClient) context() (context.Context, context.CancelFunc) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}
