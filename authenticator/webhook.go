package authenticator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/tokengate/tokengate/svc"
	authenticationv1 "k8s.io/api/authentication/v1"
)

const maxWebhookResponseBytes = 1 << 20

// WebhookReviewClient posts TokenReviews to an HTTP endpoint speaking the
// kube-apiserver webhook token authentication format.
type WebhookReviewClient struct {
	url    string
	client *http.Client
}

func NewWebhookReviewClient(url string, client *http.Client) *WebhookReviewClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookReviewClient{url: url, client: client}
}

// webhookResponse mirrors the TokenReview status with every field optional.
type webhookResponse struct {
	Status *struct {
		Authenticated *bool `json:"authenticated"`
		User          *struct {
			Username *string  `json:"username"`
			Groups   []string `json:"groups"`
		} `json:"user"`
	} `json:"status"`
}

func (w *WebhookReviewClient) Review(ctx context.Context, req ReviewRequest) (*ReviewResult, error) {
	tr := newTokenReview(req)
	tr.APIVersion = authenticationv1.SchemeGroupVersion.String()
	tr.Kind = "TokenReview"
	b, err := json.Marshal(tr)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling TokenReview")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "building review request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "sending review request")
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWebhookResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "reading review response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, svc.NewRequestError(resp, body)
	}

	var wr webhookResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return nil, errors.Wrap(err, "decoding review response")
	}
	res := &ReviewResult{}
	if wr.Status == nil {
		return res, nil
	}
	res.Authenticated = wr.Status.Authenticated
	if wr.Status.User != nil {
		res.User = &UserInfo{
			Username: wr.Status.User.Username,
			Groups:   wr.Status.User.Groups,
		}
	}
	return res, nil
}

var _ ReviewClient = &WebhookReviewClient{}
