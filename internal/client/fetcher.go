package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"productcat/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Fetcher turns one product id into a RawCategoryResult. It makes exactly one attempt;
// failures are returned as sentinel results, never as errors.
type Fetcher struct {
	urlTemplate string
}

func NewFetcher(urlTemplate string) *Fetcher {
	return &Fetcher{urlTemplate: urlTemplate}
}

// ProductURL builds the product page address for an id
func (f *Fetcher) ProductURL(productID string) string {
	return fmt.Sprintf(f.urlTemplate, url.PathEscape(productID))
}

func (f *Fetcher) Fetch(ctx context.Context, session Session, productID string) domain.RawCategoryResult {
	fragment, err := session.NavigateAndWait(ctx, f.ProductURL(productID))
	if err != nil {
		if errors.Is(err, ErrMarkerNotFound) {
			log.Debugf("Breadcrumb not found for %s", productID)
			return domain.NotFound()
		}
		log.Debugf("Fetch failed for %s: %v", productID, err)
		return domain.Failed(err)
	}

	text, err := ExtractBreadcrumbText(fragment)
	if err != nil {
		return domain.Failed(err)
	}

	return domain.Found(text)
}
