package docs

import (
	"context"
	"net/url"
	"strings"

	"github.com/afkham/recurring-meeting-optimizer/internal/core/domain"
	"github.com/afkham/recurring-meeting-optimizer/internal/infrastructure/google/googleapi"
)

const defaultBaseURL = "https://docs.googleapis.com"

// Client fetches agenda documents from the Docs v1 REST API and flattens
// them into the element sequence the decision engine consumes.
type Client struct {
	api     *googleapi.Client
	baseURL string
}

func New(api *googleapi.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		api:     api,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FetchElements retrieves one document body. Any transport or permission
// failure surfaces as a document-fetch error; the caller treats the
// document as non-contributing rather than aborting.
func (c *Client) FetchElements(ctx context.Context, docID string) ([]domain.Element, error) {
	var doc document
	endpoint := c.baseURL + "/v1/documents/" + url.PathEscape(docID)
	if err := c.api.GetJSON(ctx, "docs.documents.get", endpoint, &doc); err != nil {
		return nil, domain.WrapError(domain.ErrDocumentFetch, "fetch document "+docID, err)
	}
	return flatten(doc), nil
}
