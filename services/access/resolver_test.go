package access

import (
	"context"
	"errors"
	"testing"

	"videoportalapi/models"
	"videoportalapi/pkg/apperr"
	"videoportalapi/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAccessCodeRepo struct {
	repository.AccessCodeRepository
	rows map[string]models.AccessCode
	err  error
}

func (f *fakeAccessCodeRepo) GetByCode(_ context.Context, _ *gorm.DB, code string) (*models.AccessCode, error) {
	if f.err != nil {
		return nil, f.err
	}
	if row, ok := f.rows[code]; ok {
		return &row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeClientRepo struct {
	repository.ClientRepository
	rows  map[string]models.Client
	err   error
	calls int
}

func (f *fakeClientRepo) GetByAccessCode(_ context.Context, _ *gorm.DB, code string) (*models.Client, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if row, ok := f.rows[code]; ok {
		return &row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeGroupRepo struct {
	repository.GroupRepository
	rows map[string]models.Group
	err  error
}

func (f *fakeGroupRepo) Create(_ context.Context, _ *gorm.DB, g *models.Group) error {
	if g.ID == "" {
		g.ID = "generated-" + g.AccessCode
	}
	f.rows[g.AccessCode] = *g
	return nil
}

func (f *fakeGroupRepo) GetByAccessCode(_ context.Context, _ *gorm.DB, code string) (*models.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	if row, ok := f.rows[code]; ok {
		return &row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fixture struct {
	codes   *fakeAccessCodeRepo
	clients *fakeClientRepo
	groups  *fakeGroupRepo
	r       Resolver
}

func newFixture() *fixture {
	acme := "group-acme"
	f := &fixture{
		codes: &fakeAccessCodeRepo{rows: map[string]models.AccessCode{
			"7016565502": {ID: "ac-1", Code: "7016565502", Role: "main_admin", IsActive: true},
			"MOD-1":      {ID: "ac-2", Code: "MOD-1", Role: "moderator", IsActive: true},
			"RETIRED":    {ID: "ac-3", Code: "RETIRED", Role: "admin", IsActive: false},
			"WEIRD":      {ID: "ac-4", Code: "WEIRD", Role: "superuser", IsActive: true},
			"SHARED":     {ID: "ac-5", Code: "SHARED", Role: "admin", IsActive: false},
			"VIEWER":     {ID: "ac-6", Code: "VIEWER", Role: "client", IsActive: true},
		}},
		clients: &fakeClientRepo{rows: map[string]models.Client{
			"CLIENT-1": {ID: "c-1", ClientName: "Jane", AccessCode: "CLIENT-1", GroupID: &acme, IsActive: true},
			"LOOSE":    {ID: "c-2", ClientName: "Loose", AccessCode: "LOOSE", IsActive: true},
			"GONE":     {ID: "c-3", ClientName: "Gone", AccessCode: "GONE", GroupID: &acme, IsActive: false},
			"SHARED":   {ID: "c-4", ClientName: "Shared", AccessCode: "SHARED", GroupID: &acme, IsActive: true},
		}},
		groups: &fakeGroupRepo{rows: map[string]models.Group{
			"ACME1": {ID: acme, Name: "Acme", AccessCode: "ACME1"},
		}},
	}
	f.r = NewResolverWithDeps(f.codes, f.clients, f.groups)
	return f
}

func TestResolve_ElevatedCode(t *testing.T) {
	f := newFixture()

	id, err := f.r.Resolve(context.Background(), "7016565502")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMainAdmin, id.Role)
	assert.Nil(t, id.GroupID)
	assert.True(t, id.IsGlobal())
	assert.Equal(t, 0, f.clients.calls, "access_codes match must short-circuit")

	id, err = f.r.Resolve(context.Background(), "MOD-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, id.Role)
}

func TestResolve_ClientRoleAccessCodeHasNoScope(t *testing.T) {
	f := newFixture()

	id, err := f.r.Resolve(context.Background(), "VIEWER")
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, id.Role)
	assert.Nil(t, id.GroupID)
	assert.Equal(t, "VIEWER", id.Code)
	assert.Equal(t, 0, f.clients.calls)
}

func TestElevatedOrClient(t *testing.T) {
	for _, role := range []models.Role{models.RoleMainAdmin, models.RoleAdmin, models.RoleModerator} {
		id := elevatedOrClient(role, "X")
		assert.Equal(t, role, id.Role)
		assert.True(t, id.IsGlobal())
	}
	id := elevatedOrClient(models.RoleClient, "X")
	assert.Equal(t, models.RoleClient, id.Role)
	assert.Nil(t, id.GroupID)
}

func TestResolve_ClientCode(t *testing.T) {
	f := newFixture()

	id, err := f.r.Resolve(context.Background(), "CLIENT-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, id.Role)
	require.NotNil(t, id.GroupID)
	assert.Equal(t, "group-acme", *id.GroupID)
	assert.Equal(t, "CLIENT-1", id.Code)
}

func TestResolve_UnassignedClientHasNoScope(t *testing.T) {
	f := newFixture()

	id, err := f.r.Resolve(context.Background(), "LOOSE")
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, id.Role)
	assert.Nil(t, id.GroupID)
}

func TestResolve_GroupCode(t *testing.T) {
	f := newFixture()

	id, err := f.r.Resolve(context.Background(), "ACME1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, id.Role)
	require.NotNil(t, id.GroupID)
	assert.Equal(t, "group-acme", *id.GroupID)
}

func TestResolve_InactiveElevatedFallsThroughToClient(t *testing.T) {
	f := newFixture()

	id, err := f.r.Resolve(context.Background(), "SHARED")
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, id.Role)
}

func TestResolve_FailuresAreUniform(t *testing.T) {
	f := newFixture()

	for _, code := range []string{"bogus", "RETIRED", "GONE", "WEIRD", "acme1", "ACME1 ", "7016565502\n"} {
		t.Run(code, func(t *testing.T) {
			_, err := f.r.Resolve(context.Background(), code)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrInvalidCredential)
			assert.Equal(t, InvalidCodeMessage, apperr.UserMessage(err))
		})
	}
}

func TestResolve_EmptyCodeIsValidationError(t *testing.T) {
	f := newFixture()

	_, err := f.r.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestResolve_StoreFailureIsRetryableWithGenericMessage(t *testing.T) {
	boom := errors.New("dial tcp 10.0.0.3:3306: connect: connection refused")

	tests := []struct {
		name string
		fail func(f *fixture)
	}{
		{"access codes down", func(f *fixture) { f.codes.err = boom }},
		{"clients down", func(f *fixture) { f.clients.err = boom }},
		{"groups down", func(f *fixture) { f.groups.err = boom }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.fail(f)

			_, err := f.r.Resolve(context.Background(), "bogus")
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrUnavailable)
			assert.True(t, apperr.Retryable(err))
			assert.Equal(t, InvalidCodeMessage, apperr.UserMessage(err))
			assert.NotContains(t, apperr.UserMessage(err), "10.0.0.3")
		})
	}
}

func TestResolve_GroupRoundTrip(t *testing.T) {
	f := newFixture()

	g := &models.Group{Name: "First", AccessCode: "G1"}
	require.NoError(t, f.groups.Create(context.Background(), nil, g))

	id, err := f.r.Resolve(context.Background(), "G1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, id.Role)
	require.NotNil(t, id.GroupID)
	assert.Equal(t, g.ID, *id.GroupID)
}
