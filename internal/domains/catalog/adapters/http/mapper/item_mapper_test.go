package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
)

func TestToCreateInput_ParsesPriceText(t *testing.T) {
	name := "Coffee"
	text := "Rp15.000"
	input, err := ToCreateInput(ItemMutation{Name: &name, PriceText: &text})
	require.NoError(t, err)
	assert.Equal(t, int64(15000), input.PriceMinor)
	assert.Equal(t, "Coffee", input.Name)
}

func TestToUpdateInput_RejectsBothPrices(t *testing.T) {
	price := int64(1000)
	text := "1.000"
	_, err := ToUpdateInput("1", ItemMutation{Price: &price, PriceText: &text})
	assert.ErrorIs(t, err, errPriceConflict)
}

func TestToUpdateInput_KeepsAbsentFieldsNil(t *testing.T) {
	input, err := ToUpdateInput("1", ItemMutation{})
	require.NoError(t, err)
	assert.Nil(t, input.Name)
	assert.Nil(t, input.PriceMinor)
}

func TestFromDomainItem_LabelsPrice(t *testing.T) {
	out := FromDomainItem(domain.MenuItem{ID: "1", Name: "Cake", PriceMinor: 1250000, Position: 2})
	assert.Equal(t, "Rp1.250.000", out.PriceLabel)
	assert.Equal(t, 2, out.Position)
}
