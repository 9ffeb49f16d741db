package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/pagelens/pagelens/cache"
)

// session owns one browser instance and one page for the duration of a
// single request. It must be closed on every exit path.
type session struct {
	browser *rod.Browser
	page    *rod.Page
}

// Close releases the page and kills the browser process.
func (s *session) Close() {
	_ = s.page.Close()
	_ = s.browser.Close()
}

// acquire obtains a live, scriptable page for the address.
//
// A fresh browser and a fresh page are launched per request; there is no
// pooling or reuse. If the cache holds markup for the address, it is
// replayed into the page without any network navigation. On a miss the page
// navigates live and the rendered markup is stored in the cache before
// returning. Navigation and timeout failures propagate unclassified; the
// orchestrator maps them to the status taxonomy.
func (e *Engine) acquire(ctx context.Context, addr *url.URL, useCache bool) (*session, error) {
	log := e.log.WithField("url", addr.String())

	bin := e.browserCfg.Bin
	if bin == "" {
		found, ok := launcher.LookPath()
		if !ok {
			return nil, errors.New("no browser executable found")
		}
		bin = found
	}

	l := launcher.New().
		Headless(e.browserCfg.Headless).
		NoSandbox(e.browserCfg.NoSandbox).
		Bin(bin)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page = page.Context(ctx)
	sess := &session{browser: browser, page: page}

	key := cache.Key(addr)

	// Fast path: replay cached markup, no remote dependency.
	if useCache {
		markup, hit, err := e.pages.Get(addr.Host, key)
		if err != nil {
			sess.Close()
			return nil, err
		}
		if hit {
			if err := page.SetDocumentContent(markup); err != nil {
				sess.Close()
				return nil, fmt.Errorf("failed to replay cached markup: %w", err)
			}
			log.Debug("page served from cache")
			return sess, nil
		}
	}

	if e.browserCfg.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			log.WithError(err).Warn("stealth injection failed, proceeding without stealth")
		}
	}

	// A plausible Referer makes live fetches look like organic traffic.
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: proto.NetworkHeaders{
			"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(addr.Hostname())),
		},
	}.Call(page)

	if err := page.Timeout(e.scraperCfg.PageTimeout).Navigate(addr.String()); err != nil {
		sess.Close()
		return nil, err
	}
	if err := page.Timeout(e.scraperCfg.PageTimeout).WaitLoad(); err != nil {
		sess.Close()
		return nil, err
	}

	markup, err := page.Timeout(e.scraperCfg.PageTimeout).HTML()
	if err != nil {
		sess.Close()
		return nil, err
	}
	if err := e.pages.Set(addr.Host, key, markup); err != nil {
		sess.Close()
		return nil, err
	}

	log.Debug("page fetched live and cached")
	return sess, nil
}
