package devserver

import "github.com/pkg/browser"

// openBrowser asks the desktop environment to open url in the default
// browser. Callers treat any failure (no display, no browser installed,
// sandboxed environment) as a warning; it must never abort startup.
func openBrowser(url string) error {
	return browser.OpenURL(url)
}
