package utils_test

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/opst/photoshare/pkg/utils"
)

func TestMap(t *testing.T) {
	t.Run("it maps each element in order", func(t *testing.T) {
		got := utils.Map([]int{3, 1, 2}, strconv.Itoa)
		if want := []string{"3", "1", "2"}; !cmp.Equal(got, want) {
			t.Errorf("unexpected result: %v", got)
		}
	})

	t.Run("it returns empty slice for nil", func(t *testing.T) {
		got := utils.Map(nil, func(v int) int { return v })
		if got == nil || len(got) != 0 {
			t.Errorf("unexpected result: %#v", got)
		}
	})
}
