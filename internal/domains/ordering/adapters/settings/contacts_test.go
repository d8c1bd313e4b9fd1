package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	settingsdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
)

func TestDirectory_ReadsCurrentNumber(t *testing.T) {
	holder := settingsdomain.NewHolder(settingsdomain.Defaults("op"))
	directory := NewDirectory(holder)

	number, err := directory.DefaultContactNumber(context.Background())
	require.NoError(t, err)
	assert.Empty(t, number)

	next := settingsdomain.Defaults("op")
	next.DefaultContactNumber = "082211112222"
	holder.Set(next)

	number, err = directory.DefaultContactNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "082211112222", number)
}
