package tools

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
)

// sharedHTTPClient is a decompressing HTTP client shared by tools that
// fetch external pages, adapted from the teacher's
// pkg/transport/httpclient.go (brotli/gzip/flate-aware response reading)
// but trimmed of the teacher's Zscaler-bundle TLS override, which had no
// analog in this core's deployment model.
var (
	sharedHTTPClient     *http.Client
	sharedHTTPClientOnce sync.Once
)

func httpClient() *http.Client {
	sharedHTTPClientOnce.Do(func() {
		sharedHTTPClient = &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		}
	})
	return sharedHTTPClient
}

// fetchDecompressed issues a GET and transparently decodes a
// gzip/deflate/br Content-Encoding, the way the teacher's HTTP client did
// for its html_2_markdown tool.
func fetchDecompressed(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; mcp-core/1.0)")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		reader = flate.NewReader(resp.Body)
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}
	return io.ReadAll(reader)
}
