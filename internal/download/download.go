// Package download fetches artifacts (GKI kernel images) into a directory.
package download

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"text/template"
	"time"

	"github.com/apex/log"
	"github.com/blacktop/ltbox/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/net/http/httpproxy"
)

// Fetcher fetches the artifact at url into dir and returns the local path.
type Fetcher interface {
	Fetch(ctx context.Context, url, dir string) (string, error)
}

// HTTPFetcher downloads over HTTP(S) with a progress bar.
type HTTPFetcher struct {
	Fs       afero.Fs
	Client   *http.Client
	Progress bool
}

// NewHTTPFetcher returns a fetcher writing to the real file system.
func NewHTTPFetcher(proxy string, insecure bool) *HTTPFetcher {
	return &HTTPFetcher{
		Fs: afero.NewOsFs(),
		Client: &http.Client{
			Timeout: 30 * time.Minute,
			Transport: &http.Transport{
				Proxy:             GetProxy(proxy),
				TLSClientConfig:   &tls.Config{InsecureSkipVerify: insecure},
				ForceAttemptHTTP2: true,
			},
		},
		Progress: true,
	}
}

// GetProxy takes either an input string or read the environment and returns a proxy function
func GetProxy(proxy string) func(*http.Request) (*url.URL, error) {
	if len(proxy) > 0 {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			log.WithError(err).Error("bad proxy url")
			return http.ProxyFromEnvironment
		}
		log.Debugf("proxy set to: %s", proxyURL)
		return http.ProxyURL(proxyURL)
	}

	conf := httpproxy.FromEnvironment()
	if len(conf.HTTPProxy) > 0 || len(conf.HTTPSProxy) > 0 {
		log.WithFields(log.Fields{
			"http_proxy":  conf.HTTPProxy,
			"https_proxy": conf.HTTPSProxy,
			"no_proxy":    conf.NoProxy,
		}).Debugf("proxy info from environment")
	}

	return http.ProxyFromEnvironment
}

// Fetch downloads url into dir, writing to <name>.download first and renaming on success.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "invalid URL %s", rawURL)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("cannot derive a file name from %s", rawURL)
	}
	dest := filepath.Join(dir, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.Wrapf(err, "cannot create request for %s", rawURL)
	}
	req.Header.Set("User-Agent", utils.RandomAgent())

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "failed to download %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: server returned %s", rawURL, resp.Status)
	}

	if err := f.Fs.MkdirAll(dir, 0o750); err != nil {
		return "", errors.Wrapf(err, "cannot create %s", dir)
	}
	out, err := f.Fs.Create(dest + ".download")
	if err != nil {
		return "", errors.Wrapf(err, "cannot open %s", dest+".download")
	}

	var p *mpb.Progress
	var bar *mpb.Bar
	var reader io.Reader = resp.Body
	if f.Progress && resp.ContentLength > 0 {
		p = mpb.NewWithContext(ctx,
			mpb.WithWidth(60),
			mpb.WithRefreshRate(180*time.Millisecond),
		)
		bar = p.New(resp.ContentLength,
			mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding("-").Rbound("|"),
			mpb.PrependDecorators(
				decor.CountersKibiByte("\t% .2f / % .2f"),
			),
			mpb.AppendDecorators(
				decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "✅ "),
				decor.Name(" ] "),
				decor.AverageSpeed(decor.SizeB1024(0), "% .2f", decor.WCSyncWidth),
			),
		)
		reader = bar.ProxyReader(resp.Body)
	}

	n, err := io.Copy(out, reader)
	if p != nil {
		if err != nil {
			bar.Abort(false)
		} else {
			bar.SetTotal(-1, true)
		}
		p.Wait()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		f.Fs.Remove(dest + ".download")
		return "", errors.Wrapf(err, "failed to write %s", dest)
	}

	if err := f.Fs.Rename(dest+".download", dest); err != nil {
		return "", errors.Wrapf(err, "failed to rename %s", dest+".download")
	}
	utils.Indent(log.WithField("size", humanize.Bytes(uint64(n))).Info, 2)(fmt.Sprintf("Downloaded %s", name))

	return dest, nil
}

// ExpandURL renders a URL template such as https://host/{{.Version}}/Image.
func ExpandURL(tmpl, version string) (string, error) {
	t, err := template.New("url").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("invalid URL template %q: %v", tmpl, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, struct{ Version string }{version}); err != nil {
		return "", fmt.Errorf("failed to render URL template %q: %v", tmpl, err)
	}
	return buf.String(), nil
}
