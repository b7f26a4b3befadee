package graphimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashfeed/hashfeed/internal/gate"
	"github.com/hashfeed/hashfeed/internal/graph"
	"github.com/hashfeed/hashfeed/pkg/config"
	"github.com/hashfeed/hashfeed/pkg/logger"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
	Gate   *gate.Gate
}

type GraphImpl struct {
	http    *http.Client
	base    string
	token   string
	oembed  string
	userID  string
	gate    *gate.Gate
	limiter *rate.Limiter
	logger  logger.Logger
}

func New(opts Opts) *GraphImpl {
	rps := opts.Config.Limits.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}
	return &GraphImpl{
		http:    &http.Client{Timeout: 30 * time.Second},
		base:    strings.TrimRight(opts.Config.Graph.BaseURL, "/") + "/" + opts.Config.Graph.Version,
		token:   opts.Config.Graph.AccessToken,
		oembed:  opts.Config.Graph.OEmbedToken,
		userID:  opts.Config.Graph.UserID,
		gate:    opts.Gate,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  opts.Logger.WithComponent("GraphClient"),
	}
}

var _ graph.Client = (*GraphImpl)(nil)

// getJSON performs one upstream GET through the concurrency gate and QPS
// throttle, decoding the response into out. Error envelopes become
// *graph.UpstreamError regardless of HTTP status.
func (g *GraphImpl) getJSON(ctx context.Context, rawURL string, out any) error {
	release, err := g.gate.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if ue := parseErrorEnvelope(resp.StatusCode, body); ue != nil {
		g.logger.Debug("Upstream returned error payload",
			"status", ue.Status, "code", ue.Code, "message", ue.Message)
		return ue
	}
	if resp.StatusCode != http.StatusOK {
		return &graph.UpstreamError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &graph.UpstreamError{Status: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	return nil
}

// endpoint builds a node/edge URL with query values plus the access token.
func (g *GraphImpl) endpoint(path string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	q.Set("access_token", g.token)
	return g.base + path + "?" + q.Encode()
}

func parseErrorEnvelope(status int, body []byte) *graph.UpstreamError {
	var envelope struct {
		Error *struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    int    `json:"code"`
			Subcode int    `json:"error_subcode"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) != nil || envelope.Error == nil {
		return nil
	}
	return &graph.UpstreamError{
		Status:  status,
		Code:    envelope.Error.Code,
		Subcode: envelope.Error.Subcode,
		Type:    envelope.Error.Type,
		Message: envelope.Error.Message,
	}
}
