package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

type userCreate struct {
	sess domain.Session
	in   domain.CreateUserInput
}

type userUpdate struct {
	sess domain.Session
	id   string
	in   domain.UpdateUserInput
}

type userDelete struct {
	sess domain.Session
	id   string
}

type userService struct {
	api    ports.UserAPI
	cache  *querysync.Client
	policy querysync.Policy
	audit  *auditor

	create *querysync.Mutation[userCreate, domain.User]
	update *querysync.Mutation[userUpdate, domain.User]
	remove *querysync.Mutation[userDelete, struct{}]
}

// NewUserService wires the user reads and writes. audit may be nil.
func NewUserService(api ports.UserAPI, cache *querysync.Client, p Policies, audit ports.AuditRepository, log zerolog.Logger) ports.UserService {
	s := &userService{
		api:    api,
		cache:  cache,
		policy: p.Users,
		audit:  newAuditor(audit, log),
	}

	s.create = querysync.NewMutation(cache,
		func(ctx context.Context, c userCreate) (domain.User, error) {
			return s.api.CreateServiceProviderUser(ctx, c.sess.Token(), c.in)
		},
		func(userCreate, domain.User) []querysync.Key {
			return []querysync.Key{UsersListKey, ServiceProviderUsersKey}
		},
	)
	s.update = querysync.NewMutation(cache,
		func(ctx context.Context, u userUpdate) (domain.User, error) {
			return s.api.UpdateUser(ctx, u.sess.Token(), u.id, u.in)
		},
		func(u userUpdate, _ domain.User) []querysync.Key {
			return []querysync.Key{UsersListKey, UserDetailKey(u.id)}
		},
	)
	s.remove = querysync.NewMutation(cache,
		func(ctx context.Context, d userDelete) (struct{}, error) {
			return struct{}{}, s.api.DeleteUser(ctx, d.sess.Token(), d.id)
		},
		func(d userDelete, _ struct{}) []querysync.Key {
			return []querysync.Key{UsersListKey, UserDetailKey(d.id), ServiceProviderUsersKey}
		},
	)
	return s
}

func (s *userService) List(ctx context.Context, sess domain.Session, f domain.UserFilters) querysync.Result[[]domain.User] {
	return read(ctx, querysync.NewQuery(s.cache, scoped(FilteredUsersKey(f), sess), s.policy, func(ctx context.Context) ([]domain.User, error) {
		return s.api.Users(ctx, sess.Token(), f)
	}))
}

func (s *userService) ServiceProviderUsers(ctx context.Context, sess domain.Session) querysync.Result[[]domain.User] {
	return read(ctx, querysync.NewQuery(s.cache, scoped(ServiceProviderUsersKey, sess), s.policy, func(ctx context.Context) ([]domain.User, error) {
		return s.api.ServiceProviderUsers(ctx, sess.Token())
	}))
}

func (s *userService) Get(ctx context.Context, sess domain.Session, id string) querysync.Result[domain.User] {
	if id == "" {
		return querysync.Result[domain.User]{Err: fmt.Errorf("%w: empty user id", domain.ErrInvalidArgument)}
	}
	return read(ctx, querysync.NewQuery(s.cache, scoped(UserDetailKey(id), sess), s.policy, func(ctx context.Context) (domain.User, error) {
		return s.api.User(ctx, sess.Token(), id)
	}))
}

// CreateServiceProviderUser only creates SERVICE_PROVIDER_USER accounts; an
// unset role defaults to it.
func (s *userService) CreateServiceProviderUser(ctx context.Context, sess domain.Session, in domain.CreateUserInput) (domain.User, error) {
	if in.Role == domain.RoleNone {
		in.Role = domain.RoleServiceProviderUser
	}
	if in.Role != domain.RoleServiceProviderUser {
		return domain.User{}, fmt.Errorf("create user: %w: role %s cannot be created here", domain.ErrInvalidArgument, in.Role)
	}

	u, err := s.create.Mutate(ctx, userCreate{sess: sess, in: in})
	s.audit.record(ctx, sess, "user.create", "users/"+in.Username, []querysync.Key{UsersListKey, ServiceProviderUsersKey}, err)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, sess domain.Session, id string, in domain.UpdateUserInput) (domain.User, error) {
	if id == "" {
		return domain.User{}, fmt.Errorf("update user: %w: empty id", domain.ErrInvalidArgument)
	}
	u, err := s.update.Mutate(ctx, userUpdate{sess: sess, id: id, in: in})
	s.audit.record(ctx, sess, "user.update", "users/"+id, []querysync.Key{UsersListKey, UserDetailKey(id)}, err)
	if err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, sess domain.Session, id string) error {
	if id == "" {
		return fmt.Errorf("delete user: %w: empty id", domain.ErrInvalidArgument)
	}
	_, err := s.remove.Mutate(ctx, userDelete{sess: sess, id: id})
	s.audit.record(ctx, sess, "user.delete", "users/"+id, []querysync.Key{UsersListKey, UserDetailKey(id), ServiceProviderUsersKey}, err)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
