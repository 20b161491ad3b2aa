// internal/loan/persist/indexer.go
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	commonerrors "loan-intake-engine/internal/common/errors"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/models"
)

// Indexer mirrors finished applications into Elasticsearch for free-text
// search on the admin side. Indexing is best-effort; Postgres remains the
// source of truth.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	return &Indexer{client: client, index: index, logger: log}
}

// Index writes one application document, keyed by application id so
// retries stay idempotent.
func (i *Indexer) Index(ctx context.Context, app *models.Application) error {
	doc := map[string]interface{}{
		"applicationId":   app.ID,
		"sessionId":       app.SessionID,
		"productId":       app.ProductID,
		"profile":         MaskProfile(app.Profile),
		"requestedAmount": app.Result.RequestedAmount,
		"eligibleAmount":  app.Result.EligibleAmount,
		"interestRate":    app.Result.InterestRate,
		"status":          string(app.Result.Status),
		"createdAt":       app.CreatedAt.Format(time.RFC3339),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return searchError(err.Error())
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(body),
		i.client.Index.WithDocumentID(app.ID),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return searchError(err.Error())
	}
	defer res.Body.Close()

	if res.IsError() {
		payload, _ := io.ReadAll(res.Body)
		return searchError(fmt.Sprintf("index response %s: %s", res.Status(), payload))
	}
	return nil
}

// Search runs a free-text match over indexed applications.
func (i *Indexer) Search(ctx context.Context, query string, size int) ([]map[string]interface{}, error) {
	q := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"productId", "status", "profile.*"},
			},
		},
	}
	body, err := json.Marshal(q)
	if err != nil {
		return nil, searchError(err.Error())
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, searchError(err.Error())
	}
	defer res.Body.Close()

	if res.IsError() {
		payload, _ := io.ReadAll(res.Body)
		return nil, searchError(fmt.Sprintf("search response %s: %s", res.Status(), payload))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, searchError(err.Error())
	}

	out := make([]map[string]interface{}, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func searchError(details string) *commonerrors.StandardError {
	return &commonerrors.StandardError{
		Code:      commonerrors.ErrCodeSearchQueryFailed,
		Message:   "Search backend operation failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
