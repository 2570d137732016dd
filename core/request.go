package core

import (
	"fmt"
	"net/http"
	"time"
)

// UserAgent is sent with every request to mod providers
const UserAgent = "mcmpmgr/mcmpmgr"

// HTTPClient is used for all downloads; its timeout bounds every network operation
var HTTPClient = &http.Client{Timeout: 2 * time.Minute}

// GetWithUA makes a GET request with the mcmpmgr user agent, failing on non-2xx responses
func GetWithUA(url string, contentType string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", UserAgent)
	if contentType != "" {
		req.Header.Set("Accept", contentType)
	}
	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("asset not found: %s", url)
		}
		return nil, fmt.Errorf("invalid response status %v for %s", resp.Status, url)
	}
	return resp, nil
}
