package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"markread_demo/internal/model"
)

func TestMarkRead(t *testing.T) {
	t.Run("unread transitions", func(t *testing.T) {
		n := model.Notification{ID: "1", OwnerID: 1}
		require.True(t, MarkRead(&n))
		require.True(t, n.IsRead)
	})

	t.Run("read is terminal", func(t *testing.T) {
		n := model.Notification{ID: "3", IsRead: true, OwnerID: 2}
		require.False(t, MarkRead(&n))
		require.True(t, n.IsRead)
		require.Equal(t, int64(2), n.OwnerID)
	})
}

func TestCanRead(t *testing.T) {
	n := model.Notification{ID: "1", OwnerID: 1}
	require.True(t, CanRead(n, 1))
	require.False(t, CanRead(n, 2))
	require.False(t, CanRead(n, 0))
}

func TestOutcomes(t *testing.T) {
	require.ElementsMatch(t, []Outcome{
		"updated", "not_found_or_denied", "invalid_request", "internal_error",
	}, Outcomes())
}
