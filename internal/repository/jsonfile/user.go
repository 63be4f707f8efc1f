package jsonfile

import (
	"context"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/pkg/errors"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update("user_create", func(doc *document) error {
		if userKeyTaken(doc.Users, user.Username, user.Email) {
			return errors.Conflict("user with this username or email already exists")
		}
		doc.Users = append(doc.Users, *user)
		return nil
	})
}

func (r *userRepository) Get(ctx context.Context, id string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var user *model.User
	r.store.view(func(doc *document) {
		if i := userIndex(doc.Users, id); i >= 0 {
			u := doc.Users[i]
			user = &u
		}
	})
	if user == nil {
		return nil, errors.NotFound("user")
	}
	return user, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update("user_delete", func(doc *document) error {
		i := userIndex(doc.Users, id)
		if i < 0 {
			return errors.NotFound("user")
		}
		doc.Users = append(doc.Users[:i], doc.Users[i+1:]...)
		return nil
	})
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var users []model.User
	r.store.view(func(doc *document) {
		users = make([]model.User, len(doc.Users))
		copy(users, doc.Users)
	})
	return users, nil
}
