package display

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolutionValidate(t *testing.T) {
	ok := Resolution{
		Physical: Size{Width: 2880, Height: 1800},
		Logical:  Size{Width: 1440, Height: 900},
	}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.Physical.Width = 0
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Logical.Height = -1
	assert.Error(t, bad.Validate())
}

func TestStatic(t *testing.T) {
	res := Resolution{
		Physical: Size{Width: 1920, Height: 1080},
		Logical:  Size{Width: 1920, Height: 1080},
	}
	got, err := Static{Resolution: res}.Query()
	require.NoError(t, err)
	assert.Equal(t, res, got)

	boom := errors.New("boom")
	_, err = Static{Resolution: res, Err: boom}.Query()
	assert.ErrorIs(t, err, boom)

	_, err = Static{}.Query()
	assert.Error(t, err)
}

func TestSizeString(t *testing.T) {
	assert.Equal(t, "1920x1080", Size{Width: 1920, Height: 1080}.String())
}
