package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"productcat/scraper/internal/config"
	"productcat/scraper/internal/proxy"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	log "github.com/sirupsen/logrus"
)

type browserSessionFactory struct {
	config        config.FetchConfig
	proxySupplier proxy.ProxySupplier
}

// NewBrowserSessionFactory returns a factory for headless Chrome sessions driven over CDP
func NewBrowserSessionFactory(cfg config.FetchConfig, proxySupplier proxy.ProxySupplier) SessionFactory {
	return &browserSessionFactory{
		config:        cfg,
		proxySupplier: proxySupplier,
	}
}

func (f *browserSessionFactory) Open(ctx context.Context) (Session, error) {
	log.Info("🧭 Setting up headless Chrome browser...")

	l := launcher.New().
		Context(ctx).
		Headless(f.config.Headless).
		NoSandbox(true).
		Set("disable-dev-shm-usage")
	if f.config.BrowserBin != "" {
		l = l.Bin(f.config.BrowserBin)
	}
	if f.proxySupplier != nil {
		if proxyURL := f.proxySupplier.Get(); proxyURL != "" {
			l = l.Proxy(proxyURL)
			log.Infof("🔗 Using proxy: %s", proxyURL)
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open stealth page: %w", err)
	}

	if f.config.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.config.UserAgent}); err != nil {
			log.Warnf("⚠️ Failed to set user agent: %v", err)
		}
	}

	log.Info("✅ Browser setup complete")

	return &browserSession{
		launcher:          l,
		browser:           browser,
		page:              page,
		selector:          f.config.MarkerSelector,
		waitTimeout:       f.config.WaitTimeout,
		navigationTimeout: f.config.NavigationTimeout,
	}, nil
}

type browserSession struct {
	launcher          *launcher.Launcher
	browser           *rod.Browser
	page              *rod.Page
	selector          string
	waitTimeout       time.Duration
	navigationTimeout time.Duration
}

func (s *browserSession) NavigateAndWait(ctx context.Context, url string) (string, error) {
	page := s.page.Context(ctx)

	nav := page
	if s.navigationTimeout > 0 {
		nav = page.Timeout(s.navigationTimeout)
		defer nav.CancelTimeout()
	}
	if err := nav.Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	wait := page.Timeout(s.waitTimeout)
	defer wait.CancelTimeout()

	marker, err := wait.Element(s.selector)
	if err != nil {
		return "", markerWaitError(ctx, err, url, page.HTML)
	}

	fragment, err := marker.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read breadcrumb marker: %w", err)
	}

	return fragment, nil
}

// markerWaitError classifies a failed marker wait. Only the wait's own deadline means the
// marker is absent; the current page is then checked for a robot check.
func markerWaitError(ctx context.Context, err error, url string, currentHTML func() (string, error)) error {
	if ctx.Err() != nil || !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed waiting for breadcrumb marker: %w", err)
	}
	if current, htmlErr := currentHTML(); htmlErr == nil && isBlockedPage(current) {
		return fmt.Errorf("%w: %s", ErrBlocked, url)
	}
	return ErrMarkerNotFound
}

func (s *browserSession) Close() error {
	var errs []error
	if err := s.page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close page: %w", err))
	}
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
	}
	s.launcher.Cleanup()

	log.Info("🧭 Browser closed")
	return errors.Join(errs...)
}
