package catalog

import (
	"context"
	"testing"

	"videoportalapi/models"
	"videoportalapi/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCreate_CodeMustBeUniqueAcrossTables(t *testing.T) {
	db := newMemDB()
	svc := NewGroupServiceWithDeps(db.repos(), NewBroker())
	db.codes["a"] = models.AccessCode{ID: "a", Code: "7016565502", Role: "main_admin", IsActive: true}
	db.clients["c"] = models.Client{ID: "c", ClientName: "Jane", AccessCode: "JANE"}

	_, err := svc.Create(context.Background(), models.GroupCreateRequest{Name: "Acme", AccessCode: "ACME1"})
	require.NoError(t, err)

	for _, code := range []string{"ACME1", "7016565502", "JANE"} {
		_, err := svc.Create(context.Background(), models.GroupCreateRequest{Name: "Other", AccessCode: code})
		assert.ErrorIs(t, err, apperr.ErrConflict, code)
	}
	assert.Len(t, db.groups, 1)
}

func TestGroupCreate_Validation(t *testing.T) {
	svc := NewGroupServiceWithDeps(newMemDB().repos(), NewBroker())

	_, err := svc.Create(context.Background(), models.GroupCreateRequest{Name: "  ", AccessCode: "X"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Create(context.Background(), models.GroupCreateRequest{Name: "Acme"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGroupList_OrderedByName(t *testing.T) {
	db := newMemDB()
	svc := NewGroupServiceWithDeps(db.repos(), NewBroker())
	for _, n := range []string{"Zeta", "Acme", "Mid"} {
		_, err := svc.Create(context.Background(), models.GroupCreateRequest{Name: n, AccessCode: "code-" + n})
		require.NoError(t, err)
	}

	groups, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Acme", groups[0].Name)
	assert.Equal(t, "Zeta", groups[2].Name)
}

func TestGroupDelete(t *testing.T) {
	setup := func() (*memDB, GroupService) {
		db := newMemDB()
		gid := "g1"
		db.groups[gid] = models.Group{ID: gid, Name: "Acme", AccessCode: "ACME1"}
		db.videos["v1"] = models.Video{ID: "v1", VideoID: "a", GroupID: gid}
		db.feedback = []models.Feedback{{ID: "f1", VideoID: "v1"}}
		db.clients["c1"] = models.Client{ID: "c1", ClientName: "Jane", AccessCode: "JANE", GroupID: &gid, IsActive: true}
		return db, NewGroupServiceWithDeps(db.repos(), NewBroker())
	}

	t.Run("refused while videos remain", func(t *testing.T) {
		db, svc := setup()
		err := svc.Delete(context.Background(), "g1", false)
		assert.ErrorIs(t, err, apperr.ErrConflict)
		assert.Len(t, db.groups, 1)
		assert.Len(t, db.videos, 1)
	})

	t.Run("force removes videos and feedback and unassigns clients", func(t *testing.T) {
		db, svc := setup()
		require.NoError(t, svc.Delete(context.Background(), "g1", true))
		assert.Empty(t, db.groups)
		assert.Empty(t, db.videos)
		assert.Empty(t, db.feedback)
		assert.Nil(t, db.clients["c1"].GroupID)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, svc := setup()
		assert.ErrorIs(t, svc.Delete(context.Background(), "nope", true), apperr.ErrNotFound)
	})
}
