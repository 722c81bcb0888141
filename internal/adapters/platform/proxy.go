// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"net/url"
	"strings"
)

// ProxyEnv returns the proxy variables handed to package manager processes.
// Lowercase variables take precedence over uppercase ones, per Unix
// convention, and both cases are exported since tools disagree on which they
// read. A non-empty proxy overrides the http and https settings.
func ProxyEnv(proxy string, getenv func(string) string) []string {
	var env []string

	export := func(name, value string) {
		if value != "" {
			env = append(env, name+"="+value, strings.ToUpper(name)+"="+value)
		}
	}

	lookup := func(name string) string {
		if value := getenv(name); value != "" {
			return value
		}

		return getenv(strings.ToUpper(name))
	}

	httpProxy, httpsProxy := lookup("http_proxy"), lookup("https_proxy")
	if proxy != "" {
		httpProxy, httpsProxy = proxy, proxy
	}

	export("http_proxy", httpProxy)
	export("https_proxy", httpsProxy)
	export("no_proxy", lookup("no_proxy"))

	return env
}

// IsProxyURL reports whether proxy is usable as a proxy address. A missing
// scheme means http.
func IsProxyURL(proxy string) bool {
	if proxy == "" {
		return false
	}

	if !strings.Contains(proxy, "://") {
		proxy = "http://" + proxy
	}

	parsed, err := url.Parse(proxy)
	if err != nil || parsed.Host == "" {
		return false
	}

	switch parsed.Scheme {
	case "http", "https", "socks5":
		return true
	default:
		return false
	}
}

// envNames returns the variable names of env entries.
func envNames(env []string) []string {
	names := make([]string, 0, len(env))

	for _, entry := range env {
		if name, _, ok := strings.Cut(entry, "="); ok {
			names = append(names, name)
		}
	}

	return names
}
