package translation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslateFallsBackToMsgID(t *testing.T) {
	Configure("en")

	require.Equal(t,
		"Please enter a valid crypto symbol.",
		Translate("Please enter a valid crypto symbol."),
	)
}

func TestTranslateFormatsVars(t *testing.T) {
	Configure("en")

	require.Equal(t, "dark theme selected", Translate("%s theme selected", "dark"))
}
