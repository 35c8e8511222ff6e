// Package translate formats user visible messages for the locale of the host.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var (
	printerOnce sync.Once
	printer     *message.Printer
)

// hostPrinter selects a printer from the host locale list, defaulting to en-US.
func hostPrinter() *message.Printer {
	printerOnce.Do(func() {
		if printer != nil {
			return
		}
		locales, err := locale.GetLocales()
		if err != nil {
			log.Printf("chip8: locale: %v", err)
		}
		printer = newPrinter(locales...)
	})

	return printer
}

func newPrinter(locales ...string) *message.Printer {
	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	return message.NewPrinter(message.MatchLanguage(locales...))
}

// SetLanguage overrides the host locale, as chip8 -lang does.
func SetLanguage(locales ...string) {
	printerOnce.Do(func() {})
	printer = newPrinter(locales...)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return hostPrinter().Sprintf(key, args...)
}
