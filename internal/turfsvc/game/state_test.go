package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openturf/turf-services/internal/turfsvc/models"
)

var now = time.Date(2025, 6, 9, 18, 0, 0, 0, time.UTC)

func newGame(maxPlayers int, private bool) *models.Game {
	return &models.Game{
		ID:             "g1",
		HostID:         "host",
		TurfID:         "t1",
		Date:           "2025-06-14",
		StartTime:      "18:00",
		EndTime:        "19:00",
		Sport:          "football",
		SkillLevel:     models.SkillAll,
		MaxPlayers:     maxPlayers,
		CurrentPlayers: 1,
		IsPrivate:      private,
		Status:         models.GameStatusOpen,
	}
}

func TestJoinPublicConfirmsImmediately(t *testing.T) {
	g := newGame(4, false)

	require.NoError(t, Join(g, "u1", now))
	assert.Equal(t, []string{"u1"}, g.ConfirmedPlayers)
	assert.Equal(t, 2, g.CurrentPlayers)
	assert.Equal(t, models.GameStatusOpen, g.Status)
	assert.Empty(t, g.JoinRequests)
}

func TestJoinFlipsToFullAtCapacity(t *testing.T) {
	g := newGame(3, false)

	require.NoError(t, Join(g, "u1", now))
	assert.Equal(t, models.GameStatusOpen, g.Status)

	require.NoError(t, Join(g, "u2", now))
	assert.Equal(t, models.GameStatusFull, g.Status)
	assert.Equal(t, 3, g.CurrentPlayers)

	// a full game is closed to further joins, not merely "full"
	assert.ErrorIs(t, Join(g, "u3", now), ErrGameClosed)
}

func TestJoinCapacityInvariant(t *testing.T) {
	g := newGame(5, false)
	users := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7"}

	for _, u := range users {
		_ = Join(g, u, now)
		require.LessOrEqual(t, len(g.ConfirmedPlayers), g.MaxPlayers-1,
			"confirmed roster exceeded capacity after %s", u)
	}
	assert.Equal(t, models.GameStatusFull, g.Status)
}

func TestJoinRejectsHostAndDuplicates(t *testing.T) {
	g := newGame(6, false)

	assert.ErrorIs(t, Join(g, "host", now), ErrAlreadyJoined)

	require.NoError(t, Join(g, "u1", now))
	assert.ErrorIs(t, Join(g, "u1", now), ErrAlreadyJoined)
}

func TestJoinPrivateQueuesRequest(t *testing.T) {
	g := newGame(4, true)

	require.NoError(t, Join(g, "alice", now))
	require.Len(t, g.JoinRequests, 1)
	assert.Equal(t, "alice", g.JoinRequests[0].UserID)
	assert.Equal(t, models.JoinRequestPending, g.JoinRequests[0].Status)
	assert.Equal(t, now, g.JoinRequests[0].RequestedAt)

	// a request is not membership
	assert.Empty(t, g.ConfirmedPlayers)
	assert.Equal(t, 1, g.CurrentPlayers)
	assert.Equal(t, models.GameStatusOpen, g.Status)

	assert.ErrorIs(t, Join(g, "alice", now), ErrAlreadyRequested)
}

func TestNoDoubleMembership(t *testing.T) {
	g := newGame(4, true)

	require.NoError(t, Join(g, "alice", now))
	require.NoError(t, Respond(g, "host", "alice", true))

	assert.True(t, g.IsConfirmed("alice"))
	assert.False(t, g.HasRequest("alice"))

	assert.ErrorIs(t, Join(g, "alice", now), ErrAlreadyJoined)
}

func TestRespondApprove(t *testing.T) {
	g := newGame(4, true)
	require.NoError(t, Join(g, "alice", now))

	require.NoError(t, Respond(g, "host", "alice", true))
	assert.Equal(t, []string{"alice"}, g.ConfirmedPlayers)
	assert.Empty(t, g.JoinRequests)
	assert.Equal(t, 2, g.CurrentPlayers)
}

func TestRespondReject(t *testing.T) {
	g := newGame(4, true)
	require.NoError(t, Join(g, "alice", now))

	require.NoError(t, Respond(g, "host", "alice", false))
	assert.Empty(t, g.JoinRequests)
	assert.Empty(t, g.ConfirmedPlayers)
	assert.Equal(t, 1, g.CurrentPlayers)
}

func TestRespondGuards(t *testing.T) {
	g := newGame(2, true)
	require.NoError(t, Join(g, "alice", now))

	assert.ErrorIs(t, Respond(g, "mallory", "alice", true), ErrNotHost)
	assert.ErrorIs(t, Respond(g, "host", "bob", true), ErrNoPendingRequest)
}

func TestRespondApproveAtCapacity(t *testing.T) {
	g := newGame(3, true)
	require.NoError(t, Join(g, "alice", now))
	require.NoError(t, Join(g, "bob", now))

	require.NoError(t, Respond(g, "host", "alice", true))
	require.NoError(t, Respond(g, "host", "bob", true))
	assert.Equal(t, models.GameStatusFull, g.Status)

	// the single free seat is gone after the first approve
	g2 := newGame(2, true)
	require.NoError(t, Join(g2, "carol", now))
	require.NoError(t, Join(g2, "dave", now))
	require.NoError(t, Respond(g2, "host", "carol", true))
	require.Equal(t, models.GameStatusFull, g2.Status)
	require.ErrorIs(t, Respond(g2, "host", "dave", true), ErrGameFull)
	assert.True(t, g2.HasRequest("dave"), "failed approval must keep the request")

	// rejecting still works on a full game
	require.NoError(t, Respond(g2, "host", "dave", false))
	assert.Empty(t, g2.JoinRequests)
}

func TestLeaveReopensFullGame(t *testing.T) {
	g := newGame(3, false)
	require.NoError(t, Join(g, "u1", now))
	require.NoError(t, Join(g, "u2", now))
	require.Equal(t, models.GameStatusFull, g.Status)

	require.NoError(t, Leave(g, "u1"))
	assert.Equal(t, models.GameStatusOpen, g.Status)
	assert.Equal(t, []string{"u2"}, g.ConfirmedPlayers)
	assert.Equal(t, 2, g.CurrentPlayers)
}

func TestLeaveRemovesPendingRequest(t *testing.T) {
	g := newGame(4, true)
	require.NoError(t, Join(g, "alice", now))

	require.NoError(t, Leave(g, "alice"))
	assert.Empty(t, g.JoinRequests)
}

func TestLeaveNonMemberFailsIdempotently(t *testing.T) {
	g := newGame(4, false)
	require.NoError(t, Join(g, "u1", now))

	before := *g
	assert.ErrorIs(t, Leave(g, "ghost"), ErrNotMember)
	assert.ErrorIs(t, Leave(g, "ghost"), ErrNotMember)
	assert.Equal(t, before.ConfirmedPlayers, g.ConfirmedPlayers)
	assert.Equal(t, before.CurrentPlayers, g.CurrentPlayers)
	assert.Equal(t, before.Status, g.Status)
}

func TestMembershipOpsFailOnTerminalStates(t *testing.T) {
	for _, status := range []string{
		models.GameStatusInProgress,
		models.GameStatusCompleted,
		models.GameStatusCancelled,
	} {
		g := newGame(4, false)
		require.NoError(t, Join(g, "u1", now))
		g.Status = status

		assert.ErrorIs(t, Join(g, "u2", now), ErrGameClosed, status)
		assert.ErrorIs(t, Leave(g, "u1"), ErrGameClosed, status)
		assert.ErrorIs(t, Respond(g, "host", "u1", true), ErrGameClosed, status)
	}
}

func TestUpdateRejectedWhileRunningOrFinished(t *testing.T) {
	sport := "cricket"
	for _, status := range []string{models.GameStatusInProgress, models.GameStatusCompleted} {
		g := newGame(4, false)
		g.Status = status
		assert.ErrorIs(t, Update(g, Patch{Sport: &sport}), ErrGameClosed, status)
	}
}

func TestUpdateValidation(t *testing.T) {
	g := newGame(6, false)
	require.NoError(t, Join(g, "u1", now))
	require.NoError(t, Join(g, "u2", now))

	bad := 2 // roster is host + 2
	assert.ErrorIs(t, Update(g, Patch{MaxPlayers: &bad}), ErrValidation)

	skill := "pro"
	assert.ErrorIs(t, Update(g, Patch{SkillLevel: &skill}), ErrValidation)

	end := "17:00" // before the 18:00 start
	assert.ErrorIs(t, Update(g, Patch{EndTime: &end}), ErrValidation)
}

func TestUpdateShrinkToFull(t *testing.T) {
	g := newGame(6, false)
	require.NoError(t, Join(g, "u1", now))
	require.NoError(t, Join(g, "u2", now))

	max := 3
	require.NoError(t, Update(g, Patch{MaxPlayers: &max}))
	assert.Equal(t, models.GameStatusFull, g.Status)
	assert.Equal(t, 3, g.CurrentPlayers)
}

func TestCancel(t *testing.T) {
	g := newGame(4, false)
	require.NoError(t, Cancel(g))
	assert.Equal(t, models.GameStatusCancelled, g.Status)

	g2 := newGame(4, false)
	g2.Status = models.GameStatusInProgress
	assert.ErrorIs(t, Cancel(g2), ErrGameClosed)
}
