package http_client

import (
	"crypto/tls"
	"net/http"
	"sync"
	"time"
)

var (
	httpClient *http.Client
	once       sync.Once
)

// GetClient returns the shared client used for SMS and payment gateway calls
func GetClient() *http.Client {
	once.Do(func() {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				DisableKeepAlives:   false,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
			Timeout: time.Second * 30,
		}
	})

	return httpClient
}
