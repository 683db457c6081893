package client

import (
	"context"
	"fmt"
	"time"

	"productcat/scraper/internal/config"
	"productcat/scraper/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

type httpSessionFactory struct {
	config        config.FetchConfig
	proxySupplier proxy.ProxySupplier
}

// NewHTTPSessionFactory returns a factory for plain HTTP sessions. The breadcrumb has to be
// present in the served HTML; nothing is rendered.
func NewHTTPSessionFactory(cfg config.FetchConfig, proxySupplier proxy.ProxySupplier) SessionFactory {
	return &httpSessionFactory{
		config:        cfg,
		proxySupplier: proxySupplier,
	}
}

func (f *httpSessionFactory) Open(ctx context.Context) (Session, error) {
	client := resty.New().
		SetTimeout(f.config.NavigationTimeout).
		SetRetryCount(0).
		SetHeader("User-Agent", f.config.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5")

	if f.proxySupplier != nil {
		if proxyURL := f.proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	log.Info("🌐 HTTP session opened")

	return &httpSession{
		rl:                ratelimit.New(f.config.MaxRequestsPerSecond),
		httpClient:        client,
		selector:          f.config.MarkerSelector,
		navigationTimeout: f.config.NavigationTimeout,
		proxySupplier:     f.proxySupplier,
	}, nil
}

type httpSession struct {
	rl                ratelimit.Limiter
	httpClient        *resty.Client
	selector          string
	navigationTimeout time.Duration
	proxySupplier     proxy.ProxySupplier
}

func (s *httpSession) NavigateAndWait(ctx context.Context, url string) (string, error) {
	s.rl.Take()

	reqCtx := ctx
	if s.navigationTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.navigationTimeout)
		defer cancel()
	}

	resp, err := s.httpClient.R().
		SetContext(reqCtx).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("HTTP error: %s", resp.Status())
	}

	page := resp.String()
	if isBlockedPage(page) {
		s.rotateProxy()
		return "", fmt.Errorf("%w: %s", ErrBlocked, url)
	}

	marker, found, err := FindMarker(page, s.selector)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrMarkerNotFound
	}

	return marker, nil
}

// rotateProxy switches the next navigation to another proxy; the blocked request is not retried
func (s *httpSession) rotateProxy() {
	if s.proxySupplier == nil {
		return
	}
	if newProxy := s.proxySupplier.Get(); newProxy != "" {
		log.Warnf("🔄 Robot check detected, switching to proxy %s", newProxy)
		s.httpClient.SetProxy(newProxy)
	}
}

func (s *httpSession) Close() error {
	log.Info("🌐 HTTP session closed")
	return s.httpClient.Close()
}
