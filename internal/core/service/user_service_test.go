package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

func newUserFixture(t *testing.T) (*userService, *stubRemote, *stubAudit, *querysync.Client) {
	t.Helper()
	remote := newStubRemote()
	remote.users = []domain.User{
		{ID: "1", Username: "ada", Role: domain.RoleServiceProviderUser},
		{ID: "2", Username: "grace", Role: domain.RoleServiceProviderAdmin},
	}
	audit := &stubAudit{}
	cache := newCache(t)
	svc := NewUserService(remote, cache, testPolicies(), audit, zerolog.Nop())
	return svc.(*userService), remote, audit, cache
}

func stale(t *testing.T, c *querysync.Client, k querysync.Key) bool {
	t.Helper()
	s, ok := c.Peek(k)
	if !ok {
		t.Fatalf("no cache entry for %s", k)
	}
	return s.Stale
}

func TestUserService_ListIsCached(t *testing.T) {
	svc, remote, _, _ := newUserFixture(t)
	ctx := context.Background()
	admin := session(t, "root", domain.RoleGovernmentAdmin)

	for i := 0; i < 3; i++ {
		r := svc.List(ctx, admin, domain.UserFilters{})
		if r.Err != nil || len(r.Data) != 2 {
			t.Fatalf("List: data=%v err=%v", r.Data, r.Err)
		}
	}
	if n := remote.count("Users"); n != 1 {
		t.Fatalf("expected 1 remote call, got %d", n)
	}

	svc.List(ctx, admin, domain.UserFilters{Search: "ada"})
	if n := remote.count("Users"); n != 2 {
		t.Fatalf("filtered list must use its own key, got %d calls", n)
	}
}

func TestUserService_Get(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)
	ctx := context.Background()
	admin := session(t, "root", domain.RoleGovernmentAdmin)

	if r := svc.Get(ctx, admin, "2"); r.Err != nil || r.Data.Username != "grace" {
		t.Fatalf("Get: %+v", r)
	}
	r := svc.Get(ctx, admin, "404")
	if !errors.Is(r.Err, domain.ErrNotFound) || r.HasData {
		t.Fatalf("expected not found, got %+v", r)
	}
	if r := svc.Get(ctx, admin, ""); !errors.Is(r.Err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", r.Err)
	}
}

func TestUserService_Create_Invalidates(t *testing.T) {
	svc, _, audit, cache := newUserFixture(t)
	ctx := context.Background()
	admin := session(t, "root", domain.RoleServiceProviderAdmin)

	svc.List(ctx, admin, domain.UserFilters{})
	svc.List(ctx, admin, domain.UserFilters{Role: domain.RoleServiceProviderUser})
	svc.ServiceProviderUsers(ctx, admin)
	svc.Get(ctx, admin, "1")

	u, err := svc.CreateServiceProviderUser(ctx, admin, domain.CreateUserInput{Username: "linus", Password: "pw"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Role != domain.RoleServiceProviderUser {
		t.Fatalf("expected default role SERVICE_PROVIDER_USER, got %s", u.Role)
	}

	if !stale(t, cache, UsersListKey.For("root")) || !stale(t, cache, FilteredUsersKey(domain.UserFilters{Role: domain.RoleServiceProviderUser}).For("root")) {
		t.Fatalf("user lists must be invalidated")
	}
	if !stale(t, cache, ServiceProviderUsersKey.For("root")) {
		t.Fatalf("service-provider list must be invalidated")
	}
	if stale(t, cache, UserDetailKey("1").For("root")) {
		t.Fatalf("unrelated detail must stay fresh")
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != "user.create" || len(audit.entries[0].Invalidated) != 2 {
		t.Fatalf("unexpected audit: %+v", audit.entries)
	}
}

func TestUserService_Create_RejectsOtherRoles(t *testing.T) {
	svc, remote, _, _ := newUserFixture(t)
	_, err := svc.CreateServiceProviderUser(context.Background(), session(t, "root", domain.RoleGovernmentAdmin),
		domain.CreateUserInput{Username: "x", Role: domain.RoleGovernmentAdmin})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if remote.count("CreateServiceProviderUser") != 0 {
		t.Fatalf("remote must not be called")
	}
}

func TestUserService_Update_Invalidates(t *testing.T) {
	svc, _, _, cache := newUserFixture(t)
	ctx := context.Background()
	admin := session(t, "root", domain.RoleGovernmentAdmin)
	svc.List(ctx, admin, domain.UserFilters{})
	svc.Get(ctx, admin, "1")
	svc.Get(ctx, admin, "2")

	active := false
	if _, err := svc.Update(ctx, admin, "1", domain.UpdateUserInput{IsActive: &active}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !stale(t, cache, UsersListKey.For("root")) || !stale(t, cache, UserDetailKey("1").For("root")) {
		t.Fatalf("list and detail must be invalidated")
	}
	if stale(t, cache, UserDetailKey("2").For("root")) {
		t.Fatalf("other detail must stay fresh")
	}
}

func TestUserService_Delete_FailureLeavesCache(t *testing.T) {
	svc, remote, audit, cache := newUserFixture(t)
	ctx := context.Background()
	admin := session(t, "root", domain.RoleGovernmentAdmin)
	svc.List(ctx, admin, domain.UserFilters{})

	remote.setErr(domain.ErrNotFound)
	err := svc.Delete(ctx, admin, "1")
	if !errors.Is(err, domain.ErrMutationFailed) || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected wrapped ErrNotFound, got %v", err)
	}
	if stale(t, cache, UsersListKey.For("root")) {
		t.Fatalf("failed delete must not invalidate")
	}
	if svc.remove.IsPending() || svc.remove.Err() == nil {
		t.Fatalf("mutation handle state not updated")
	}
	if audit.entries[0].Outcome != domain.AuditFailed {
		t.Fatalf("expected failed audit entry")
	}
}

func TestUserService_AuditFailureIsNonFatal(t *testing.T) {
	svc, _, audit, _ := newUserFixture(t)
	audit.err = errors.New("mongo down")

	if err := svc.Delete(context.Background(), session(t, "root", domain.RoleGovernmentAdmin), "1"); err != nil {
		t.Fatalf("Delete must succeed when audit fails, got %v", err)
	}
}

// perTokenRemote answers user reads with data only the caller's token may see.
type perTokenRemote struct {
	*stubRemote
}

func (r perTokenRemote) Users(_ context.Context, token string, _ domain.UserFilters) ([]domain.User, error) {
	if err := r.hit("Users"); err != nil {
		return nil, err
	}
	return []domain.User{{ID: "visible-to-" + token}}, nil
}

func (r perTokenRemote) User(_ context.Context, token string, id string) (domain.User, error) {
	if err := r.hit("User"); err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: id, Department: "seen-by-" + token}, nil
}

func TestUserService_CacheIsPerCaller(t *testing.T) {
	remote := perTokenRemote{newStubRemote()}
	cache := newCache(t)
	svc := NewUserService(remote, cache, testPolicies(), nil, zerolog.Nop())
	ctx := context.Background()
	gov := session(t, "root", domain.RoleGovernmentAdmin)
	sp := session(t, "spadmin", domain.RoleServiceProviderAdmin)

	govList := svc.List(ctx, gov, domain.UserFilters{})
	spList := svc.List(ctx, sp, domain.UserFilters{})
	if govList.Data[0].ID != "visible-to-token-root" {
		t.Fatalf("government admin got %+v", govList.Data)
	}
	if spList.Data[0].ID != "visible-to-token-spadmin" {
		t.Fatalf("service-provider admin was served another caller's list: %+v", spList.Data)
	}
	if n := remote.count("Users"); n != 2 {
		t.Fatalf("expected one remote call per caller, got %d", n)
	}
	if d := svc.Get(ctx, sp, "1"); d.Data.Department != "seen-by-token-spadmin" {
		t.Fatalf("detail not scoped to caller: %+v", d.Data)
	}

	if _, err := svc.Update(ctx, sp, "1", domain.UpdateUserInput{}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !stale(t, cache, UsersListKey.For("root")) || !stale(t, cache, UsersListKey.For("spadmin")) {
		t.Fatalf("a write must invalidate every caller's copy")
	}
}
