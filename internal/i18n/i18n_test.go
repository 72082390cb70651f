package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_LoadsEmbeddedLocales(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "User already exists!", T("en", KeyAuthUserExists))
	assert.Equal(t, "Invalid product ID", T("en", KeyValidationID, "product"))
	assert.ElementsMatch(t, []string{"en", "zh_TW"}, GetSupportedLanguages())
}

func TestT_FallsBackToDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.json":    {Data: []byte(`{"greeting":"hello","only.en":"english"}`)},
		"locales/zh_TW.json": {Data: []byte(`{"greeting":"你好"}`)},
		"locales/README.md":  {Data: []byte("ignored")},
	}

	tr := New("en")
	require.NoError(t, tr.LoadTranslations(fsys, "locales"))

	assert.Equal(t, "你好", tr.T("zh_TW", "greeting"))
	assert.Equal(t, "english", tr.T("zh_TW", "only.en"))
	assert.Equal(t, "missing.key", tr.T("en", "missing.key"))
}

func TestLoadTranslations_InvalidJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.json": {Data: []byte(`{not json`)},
	}

	err := New("en").LoadTranslations(fsys, "locales")
	assert.Error(t, err)
}
