package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		opt  HeaderOptions
		want []string
	}{
		{name: "bom_and_trim", in: []string{"\uFEFF id ", " sales "}, want: []string{"id", "sales"}},
		{name: "fold", in: []string{"Tržby Celkem"}, opt: HeaderOptions{Normalize: true}, want: []string{"trzby_celkem"}},
		{name: "map_wins", in: []string{"Revenue"}, opt: HeaderOptions{Normalize: true, Map: map[string]string{"Revenue": "sales"}}, want: []string{"sales"}},
		{name: "empty_and_duplicates", in: []string{"a", "", "a", "a"}, want: []string{"a", "Unnamed: 1", "a.1", "a.2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeaders(tt.in, tt.opt))
		})
	}
}
