package logic

import (
	"encoding/json"

	"golang.org/x/exp/slog"

	"github.com/gravitl/scimdir/database"
	"github.com/gravitl/scimdir/filter"
	"github.com/gravitl/scimdir/models"
)

// CreateUser - assigns an id, persists the user and caches it.
// User names are not required to be unique.
func (d *Directory) CreateUser(u models.User) (models.User, error) {
	const op = "createUser"
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(op); err != nil {
		return models.User{}, err
	}
	id, err := d.ids.NextID(models.UserEntity, maxNumericID(d.users.IDs()))
	if err != nil {
		return models.User{}, storeFailure(op, models.UserEntity, "", err, ErrStoreWrite)
	}
	u = u.Clone()
	u.ID = id
	if err := d.saveUser(op, u); err != nil {
		return models.User{}, err
	}
	d.users.Put(id, u)
	d.publish(models.DirectoryEvent{Entity: models.UserEntity, Action: models.EventCreate, ID: id})
	return u.Clone(), nil
}

// UpdateUser - replaces an existing user in full
func (d *Directory) UpdateUser(id string, u models.User) (models.User, error) {
	const op = "updateUser"
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(op); err != nil {
		return models.User{}, err
	}
	if _, ok := d.users.Get(id); !ok {
		return models.User{}, dirErr(ErrNotFound, op, models.UserEntity, id, nil)
	}
	u = u.Clone()
	u.ID = id
	if err := d.saveUser(op, u); err != nil {
		return models.User{}, err
	}
	d.users.Put(id, u)
	d.publish(models.DirectoryEvent{Entity: models.UserEntity, Action: models.EventUpdate, ID: id})
	return u.Clone(), nil
}

// GetUser - cached user by id
func (d *Directory) GetUser(id string) (models.User, error) {
	const op = "getUser"
	d.mu.RLock()
	defer d.mu.RUnlock()
	if err := d.ready(op); err != nil {
		return models.User{}, err
	}
	u, ok := d.users.Get(id)
	if !ok {
		return models.User{}, dirErr(ErrNotFound, op, models.UserEntity, id, nil)
	}
	return u, nil
}

// GetUsers - users matching f in id order, or every user when f is nil.
// An unfiltered list reloads the cache first under RefreshOnList. page only sets startIndex.
func (d *Directory) GetUsers(page *models.PageRequest, f filter.Filter) (models.UserQueryResponse, error) {
	const op = "getUsers"
	if f == nil && d.opts.UserRefresh == RefreshOnList {
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.ready(op); err != nil {
			return models.UserQueryResponse{}, err
		}
		if err := d.reloadUsers(op); err != nil {
			return models.UserQueryResponse{}, err
		}
	} else {
		d.mu.RLock()
		defer d.mu.RUnlock()
		if err := d.ready(op); err != nil {
			return models.UserQueryResponse{}, err
		}
	}
	if f == nil {
		users := d.users.Snapshot()
		return models.NewUserQueryResponse(users, len(users), page), nil
	}
	if !d.eval.Supported(f) {
		slog.Warn("unsupported filter, no user will match", "filter", f)
	}
	var matches []models.User
	d.users.Each(func(_ string, u models.User) bool {
		if d.eval.Match(f, u) {
			matches = append(matches, u)
		}
		return true
	})
	return models.NewUserQueryResponse(matches, len(matches), page), nil
}

// FindUserByName - first user in id order with exactly this user name
func (d *Directory) FindUserByName(userName string) (models.User, error) {
	const op = "findUser"
	d.mu.RLock()
	defer d.mu.RUnlock()
	if err := d.ready(op); err != nil {
		return models.User{}, err
	}
	var found *models.User
	d.users.Each(func(_ string, u models.User) bool {
		if u.UserName == userName {
			found = &u
			return false
		}
		return true
	})
	if found == nil {
		return models.User{}, dirErr(ErrNotFound, op, models.UserEntity, userName, nil)
	}
	return *found, nil
}

func (d *Directory) saveUser(op string, u models.User) error {
	record, err := json.Marshal(u)
	if err != nil {
		return dirErr(ErrStoreWrite, op, models.UserEntity, u.ID, err)
	}
	if err := d.gw.SaveOne(database.UsersRecord, u.ID, string(record)); err != nil {
		slog.Error("could not save user", "op", op, "id", u.ID, "error", err)
		return storeFailure(op, models.UserEntity, u.ID, err, ErrStoreWrite)
	}
	return nil
}
