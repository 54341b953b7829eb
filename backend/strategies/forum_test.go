package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/backend/models"
)

func newForum(t *testing.T, creator string) *models.Forum {
	t.Helper()
	forum, err := ClientForumStrategy{}.CreateForum(models.ForumDraft{
		Title:       "How do I pick a target?",
		Description: "Looking for advice",
	}, creator, now)
	require.NoError(t, err)
	return forum
}

func TestResolveForumStrategy(t *testing.T) {
	for _, role := range []models.Role{models.RoleClient, models.RoleModerator, models.RoleAdmin} {
		s, err := ResolveForumStrategy(role)
		require.NoError(t, err)
		assert.Equal(t, role, s.Role())
	}
	_, err := ResolveForumStrategy("")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestCreateForum(t *testing.T) {
	_, err := ClientForumStrategy{}.CreateForum(models.ForumDraft{Title: " ", Description: "d"}, "u", now)
	assert.ErrorIs(t, err, models.ErrEmptyTitle)

	_, err = ClientForumStrategy{}.CreateForum(models.ForumDraft{Title: "t", Description: ""}, "u", now)
	assert.ErrorIs(t, err, models.ErrEmptyDescription)

	forum := newForum(t, "u")
	assert.Equal(t, models.StatusOpen, forum.Status)
	assert.Empty(t, forum.Comments)

	for _, s := range []ForumStrategy{ModeratorForumStrategy{}, AdminForumStrategy{}} {
		_, err := s.CreateForum(models.ForumDraft{Title: "t", Description: "d"}, "staff", now)
		assert.ErrorIs(t, err, models.ErrUnableToCreateForum)
	}
}

func TestForumComments(t *testing.T) {
	forum := newForum(t, "owner")
	s := ClientForumStrategy{}

	c, err := s.AddComment(forum, "Start with costs", "u1", now)
	require.NoError(t, err)
	assert.False(t, c.IsHelpful)

	_, err = s.AddComment(forum, "", "u1", now)
	assert.ErrorIs(t, err, models.ErrEmptyComment)

	require.NoError(t, forum.Close())
	_, err = s.AddComment(forum, "late", "u1", now)
	assert.ErrorIs(t, err, models.ErrForumClosed)
}

func TestForumPermissions(t *testing.T) {
	forum := newForum(t, "owner")
	client, mod, admin := ClientForumStrategy{}, ModeratorForumStrategy{}, AdminForumStrategy{}

	assert.True(t, client.CanDeleteComment("u1", "u1"))
	assert.False(t, client.CanDeleteComment("u1", "u2"))
	assert.True(t, mod.CanDeleteComment("u1", "mod"))
	assert.True(t, admin.CanDeleteComment("u1", "admin"))

	assert.True(t, client.CanCloseForum(forum, "owner"))
	assert.False(t, client.CanCloseForum(forum, "u2"))
	assert.True(t, mod.CanCloseForum(forum, "mod"))
	assert.True(t, admin.CanCloseForum(forum, "admin"))

	assert.True(t, client.CanMarkHelpful(forum, "owner"))
	assert.False(t, client.CanMarkHelpful(forum, "u2"))
	assert.False(t, mod.CanMarkHelpful(forum, "mod"))
	assert.False(t, admin.CanMarkHelpful(forum, "admin"))
}

func TestFormatForumForView(t *testing.T) {
	forum := newForum(t, "owner")
	assert.True(t, ClientForumStrategy{}.FormatForView(forum, true).CanEdit)
	assert.False(t, ClientForumStrategy{}.FormatForView(forum, false).CanEdit)
	assert.True(t, ModeratorForumStrategy{}.FormatForView(forum, false).CanEdit)
	assert.True(t, AdminForumStrategy{}.FormatForView(forum, false).CanEdit)
}
