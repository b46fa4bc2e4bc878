package main

import (
	"embed"

	"github.com/kaptinlin/go-i18n"
)

//go:embed locales/*.json
var localesFS embed.FS

// newI18n returns an initialized internationalization bundle with the
// catalogs embedded alongside this binary, keyed by jtd.SchemaErrorKind
// value so a SchemaError.Localize call resolves directly.
func newI18n() (*i18n.I18n, error) {
	bundle := i18n.NewBundle(
		i18n.WithDefaultLocale("en"),
		i18n.WithLocales("en", "es"),
	)
	if err := bundle.LoadFS(localesFS, "locales/*.json"); err != nil {
		return nil, err
	}
	return bundle, nil
}
