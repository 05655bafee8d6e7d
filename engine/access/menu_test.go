package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func menuKeys(items []MenuItem) []string {
	var keys []string
	for _, item := range items {
		keys = append(keys, item.Key)
		for _, child := range item.Children {
			keys = append(keys, item.Key+"/"+child.Key)
		}
	}
	return keys
}

func TestFilterMenu(t *testing.T) {
	t.Run("Should show everything to an admin", func(t *testing.T) {
		got := FilterMenu(DefaultMenu(), principal(t, "ADMIN"))
		assert.Contains(t, menuKeys(got), "management/users")
		assert.Contains(t, menuKeys(got), "learning/practicalSessions")
		assert.Len(t, got, len(DefaultMenu()))
	})

	t.Run("Should hide a parent whose children are all hidden", func(t *testing.T) {
		got := FilterMenu(DefaultMenu(), principal(t, "LEARNER"))
		assert.Equal(t, []string{"dashboard", "profile"}, menuKeys(got))
	})

	t.Run("Should keep company representatives out of management", func(t *testing.T) {
		got := FilterMenu(DefaultMenu(), principal(t, "COMPANY_REP"))
		assert.Equal(t, []string{"dashboard", "events", "profile"}, menuKeys(got))
	})

	t.Run("Should show instructors the learning tools", func(t *testing.T) {
		got := menuKeys(FilterMenu(DefaultMenu(), principal(t, "INSTRUCTOR")))
		assert.Contains(t, got, "learning/formations")
		assert.Contains(t, got, "analytics")
		assert.NotContains(t, got, "events")
		assert.NotContains(t, got, "management")
	})

	t.Run("Should return nothing without a principal", func(t *testing.T) {
		assert.Empty(t, FilterMenu(DefaultMenu(), nil))
	})

	t.Run("Should not modify the input tree", func(t *testing.T) {
		menu := DefaultMenu()
		FilterMenu(menu, principal(t, "INSTRUCTOR"))
		assert.Equal(t, DefaultMenu(), menu)
	})
}
