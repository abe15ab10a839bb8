package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, Winter}, {time.February, Winter}, {time.March, Spring}, {time.May, Spring},
		{time.June, Summer}, {time.August, Summer}, {time.September, Fall}, {time.November, Fall},
		{time.December, Winter},
	}
	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Of(time.Date(2024, tt.month, 15, 0, 0, 0, 0, time.UTC)))
		})
	}
}

func TestContextFor(t *testing.T) {
	assert.Equal(t, "stop fertilizing for most plants", ContextFor(Winter).Fertilizing)
	assert.Equal(t, Spring, ContextFor("monsoon").Season)
}
