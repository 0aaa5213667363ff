package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/de-tools/emotion-atlas/pkg/models/domain"
)

func TestForecast_Empty(t *testing.T) {
	f := Forecast(&domain.Series{Categories: []string{"happy"}})
	assert.Nil(t, f.Values)
	assert.Equal(t, NoDataForecastNote, f.Note)
}

func TestDominantCategory(t *testing.T) {
	got, ok := DominantCategory(domain.CategoryValues{
		{Category: "neutral", Value: 40},
		{Category: "happy", Value: 60},
		{Category: "sad", Value: 60},
	})
	assert.True(t, ok)
	assert.Equal(t, "happy", got)

	_, ok = DominantCategory(nil)
	assert.False(t, ok)
}
