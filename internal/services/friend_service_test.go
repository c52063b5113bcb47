package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dias221467/HabitFlow/internal/engine"
)

func TestFriendService_RequestAcceptFlow(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex Chen")
	f.seedUser(t, "u2", "Sam Rivera")
	ctx := context.Background()

	target, err := f.friends.SendFriendRequest(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, "Sam Rivera", target.Name)

	pending, err := f.friends.PendingRequests(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "u1", pending[0].SenderID)
	assert.Equal(t, "Alex Chen", pending[0].Name)
	assert.Contains(t, pending[0].AvatarURL, "ui-avatars.com")

	f.createGoal(t, "u1", "Run", 100)
	friend, err := f.friends.AcceptFriendRequest(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", friend.ID)
	require.Len(t, friend.Goals, 1)
	assert.Empty(t, friend.Goals[0].History)

	for _, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}} {
		friends, err := f.friends.GetFriends(ctx, pair[0])
		require.NoError(t, err)
		require.Len(t, friends, 1)
		assert.Equal(t, pair[1], friends[0].ID)
	}

	pending, err = f.friends.PendingRequests(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, pending)

	logs, err := f.activity.Timeline(ctx, "u1", TimelineQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, "Sam Rivera accepted your friend request", logs[0].Description)
}

func TestFriendService_Rejections(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	f.seedUser(t, "u2", "Sam")
	ctx := context.Background()

	_, err := f.friends.SendFriendRequest(ctx, "u1", "u1")
	assert.True(t, engine.IsValidation(err))
	_, err = f.friends.SendFriendRequest(ctx, "u1", "ghost")
	assert.True(t, engine.IsNotFound(err))
	_, err = f.friends.AcceptFriendRequest(ctx, "u2", "u1")
	assert.True(t, engine.IsNotFound(err))

	_, err = f.friends.SendFriendRequest(ctx, "u1", "u2")
	require.NoError(t, err)
	require.NoError(t, f.friends.RejectFriendRequest(ctx, "u2", "u1"))

	friends, err := f.friends.GetFriends(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, friends)

	_, err = f.friends.SendFriendRequest(ctx, "u1", "u2")
	require.NoError(t, err)
	pending, err := f.friends.PendingRequests(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestFriendService_CrossedRequestsAccept(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	f.seedUser(t, "u2", "Sam")
	ctx := context.Background()

	_, err := f.friends.SendFriendRequest(ctx, "u1", "u2")
	require.NoError(t, err)
	_, err = f.friends.SendFriendRequest(ctx, "u2", "u1")
	require.NoError(t, err)

	ok, err := f.friends.AreFriends(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.friends.SendFriendRequest(ctx, "u1", "u2")
	assert.True(t, engine.IsIllegalState(err))
}

func TestFriendService_RemoveFriend(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	f.seedUser(t, "u2", "Sam")
	ctx := context.Background()
	f.befriend(t, "u1", "u2")

	require.NoError(t, f.friends.RemoveFriend(ctx, "u1", "u2"))
	friends, err := f.friends.GetFriends(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, friends)

	err = f.friends.RemoveFriend(ctx, "u1", "u2")
	assert.True(t, engine.IsNotFound(err))
}

func TestFriendService_Feed(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	f.seedUser(t, "u2", "Sam")
	f.seedUser(t, "u3", "Jordan")
	ctx := context.Background()
	f.befriend(t, "u1", "u2")

	goal := f.createGoal(t, "u2", "Run", 100)
	kept := mustWait(t)(f.goals.AddProgress(ctx, "u2", goal.ID, dec("3")))
	undone := mustWait(t)(f.goals.AddProgress(ctx, "u2", goal.ID, dec("4")))
	mustWait(t)(f.activity.ReverseEntry(ctx, "u2", undone.Entry.ID))

	stranger := f.createGoal(t, "u3", "Swim", 10)
	mustWait(t)(f.goals.AddProgress(ctx, "u3", stranger.ID, dec("1")))

	feed, err := f.friends.Feed(ctx, "u1")
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, item := range feed {
		assert.Equal(t, "u2", item.FriendID)
		assert.Equal(t, "Sam", item.FriendName)
		ids[item.ID] = true
	}
	assert.True(t, ids[kept.Entry.ID])
	assert.False(t, ids[undone.Entry.ID])
}
