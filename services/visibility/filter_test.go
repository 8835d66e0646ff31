package visibility

import (
	"testing"
	"time"

	"videoportalapi/models"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func video(id, group string, created time.Time) models.Video {
	return models.Video{ID: id, VideoID: "VID_" + id, Name: id, GroupID: group, IsActive: true, CreatedAt: created}
}

func names(vs []models.Video) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Name)
	}
	return out
}

func client(group string) models.Identity {
	return models.Identity{Role: models.RoleClient, Code: "c", GroupID: &group}
}

func TestListVisible_AcmeScenario(t *testing.T) {
	intro := video("Intro", "acme", now.Add(-48*time.Hour))
	old := video("Old", "acme", now.Add(-24*time.Hour))
	old.ExpiresAt = ptr(now.Add(-24 * time.Hour))

	got := ListVisible([]models.Video{intro, old}, client("acme"), Query{}, now)

	assert.Equal(t, []string{"Intro"}, names(got))
}

func TestListVisible_UnassignedClientSeesNothing(t *testing.T) {
	catalog := []models.Video{
		video("a", "acme", now),
		video("b", "beta", now),
		video("c", "", now),
	}

	got := ListVisible(catalog, models.Identity{Role: models.RoleClient, Code: "x"}, Query{}, now)

	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestListVisible_ClientScopedToGroup(t *testing.T) {
	catalog := []models.Video{
		video("mine", "acme", now.Add(-time.Hour)),
		video("theirs", "beta", now.Add(-time.Hour)),
	}

	got := ListVisible(catalog, client("acme"), Query{}, now)

	assert.Equal(t, []string{"mine"}, names(got))
}

func TestListVisible_ClientIgnoresGroupFilter(t *testing.T) {
	catalog := []models.Video{
		video("mine", "acme", now.Add(-time.Hour)),
		video("theirs", "beta", now.Add(-time.Hour)),
	}

	got := ListVisible(catalog, client("acme"), Query{GroupID: "beta"}, now)

	assert.Equal(t, []string{"mine"}, names(got))
}

func TestListVisible_ExpiryBoundary(t *testing.T) {
	atNow := video("at-now", "acme", now.Add(-time.Hour))
	atNow.ExpiresAt = ptr(now)
	later := video("later", "acme", now.Add(-2*time.Hour))
	later.ExpiresAt = ptr(now.Add(time.Second))

	got := ListVisible([]models.Video{atNow, later}, client("acme"), Query{}, now)

	assert.Equal(t, []string{"later"}, names(got))
}

func TestListVisible_ExpiredHiddenForEveryRole(t *testing.T) {
	expired := video("expired", "acme", now.Add(-time.Hour))
	expired.ExpiresAt = ptr(now.Add(-time.Minute))
	catalog := []models.Video{expired}

	for _, role := range []models.Role{models.RoleMainAdmin, models.RoleAdmin, models.RoleModerator} {
		assert.Empty(t, ListVisible(catalog, models.Identity{Role: role}, Query{}, now), "role %s", role)
	}
	assert.Empty(t, ListVisible(catalog, client("acme"), Query{}, now))
}

func TestListVisible_AdminBypassToggle(t *testing.T) {
	expired := video("expired", "acme", now.Add(-time.Hour))
	expired.ExpiresAt = ptr(now.Add(-time.Minute))
	catalog := []models.Video{expired}
	p := Policy{AdminBypassExpiry: true}

	assert.Equal(t, []string{"expired"}, names(p.ListVisible(catalog, models.Identity{Role: models.RoleAdmin}, Query{}, now)))
	assert.Empty(t, p.ListVisible(catalog, client("acme"), Query{}, now), "bypass never applies to clients")
}

func TestListVisible_InactiveHidden(t *testing.T) {
	off := video("off", "acme", now)
	off.IsActive = false

	assert.Empty(t, Policy{AdminBypassExpiry: true}.ListVisible([]models.Video{off}, models.Identity{Role: models.RoleMainAdmin}, Query{}, now))
	assert.Empty(t, ListVisible([]models.Video{off}, client("acme"), Query{}, now))
}

func TestListVisible_ElevatedSeesAllGroupsWithOptionalFilter(t *testing.T) {
	catalog := []models.Video{
		video("a", "acme", now.Add(-3*time.Hour)),
		video("b", "beta", now.Add(-2*time.Hour)),
	}
	admin := models.Identity{Role: models.RoleModerator}

	assert.Equal(t, []string{"b", "a"}, names(ListVisible(catalog, admin, Query{}, now)))
	assert.Equal(t, []string{"a"}, names(ListVisible(catalog, admin, Query{GroupID: "acme"}, now)))
}

func TestListVisible_NewestFirstStable(t *testing.T) {
	t0 := now.Add(-time.Hour)
	catalog := []models.Video{
		video("first", "acme", t0),
		video("newest", "acme", now.Add(-time.Minute)),
		video("second", "acme", t0),
		video("third", "acme", t0),
	}

	got := ListVisible(catalog, client("acme"), Query{}, now)

	assert.Equal(t, []string{"newest", "first", "second", "third"}, names(got))
	assert.Equal(t, "first", catalog[0].Name, "input must not be reordered")
}

func TestListVisible_SearchNameOrDescription(t *testing.T) {
	a := video("Onboarding Intro", "acme", now.Add(-3*time.Hour))
	b := video("Quarterly", "acme", now.Add(-2*time.Hour))
	b.Description = ptr("Intro to the numbers")
	c := video("Roadmap", "acme", now.Add(-time.Hour))

	got := ListVisible([]models.Video{a, b, c}, client("acme"), Query{Search: "  INTRO "}, now)

	assert.Equal(t, []string{"Quarterly", "Onboarding Intro"}, names(got))
}

func TestListVisible_UnknownRoleSeesNothing(t *testing.T) {
	got := ListVisible([]models.Video{video("a", "acme", now)}, models.Identity{Role: "viewer"}, Query{}, now)
	assert.Empty(t, got)
}
