package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaptinlin/go-i18n"
	"github.com/kaptinlin/jtdgen/jtd"
)

func TestNewI18nLoadsEmbeddedCatalogs(t *testing.T) {
	bundle, err := newI18n()
	require.NoError(t, err)
	require.NotNil(t, bundle)
}

func TestLocalizedMessageMatchesSchemaErrorKind(t *testing.T) {
	bundle, err := newI18n()
	require.NoError(t, err)

	localizer := bundle.NewLocalizer("es")
	msg := localizer.Get(string(jtd.KindEnumEmpty), i18n.Vars(map[string]any{"pointer": "/enum"}))
	assert.Contains(t, msg, "/enum")
	assert.NotEqual(t, string(jtd.KindEnumEmpty), msg)
}

func TestMustLocalizerFallsBackToEnglishForUnknownLocale(t *testing.T) {
	localizer := mustLocalizer("xx", t.Logf)
	require.NotNil(t, localizer)
	msg := localizer.Get(string(jtd.KindEnumEmpty), i18n.Vars(map[string]any{"pointer": "/enum"}))
	assert.Contains(t, msg, "has an empty enum")
}
