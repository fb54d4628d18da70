package logic

import (
	"encoding/json"

	"golang.org/x/exp/slog"
	"golang.org/x/text/cases"

	"github.com/gravitl/scimdir/database"
	"github.com/gravitl/scimdir/models"
)

// CreateGroup - rejects display names already taken ignoring case, then persists the whole collection
func (d *Directory) CreateGroup(g models.Group) (models.Group, error) {
	const op = "createGroup"
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(op); err != nil {
		return models.Group{}, err
	}
	if d.displayNameTaken(g.DisplayName) {
		return models.Group{}, dirErr(ErrDuplicateGroup, op, models.GroupEntity, g.DisplayName, nil)
	}
	id, err := d.ids.NextID(models.GroupEntity, maxNumericID(d.groups.IDs()))
	if err != nil {
		return models.Group{}, storeFailure(op, models.GroupEntity, "", err, ErrStoreWrite)
	}
	g = g.Clone()
	g.ID = id
	if err := d.saveGroups(op, id, &g, ""); err != nil {
		return models.Group{}, err
	}
	d.groups.Put(id, g)
	d.publish(models.DirectoryEvent{Entity: models.GroupEntity, Action: models.EventCreate, ID: id})
	return g.Clone(), nil
}

// UpdateGroup - replaces an existing group in full
func (d *Directory) UpdateGroup(id string, g models.Group) (models.Group, error) {
	const op = "updateGroup"
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(op); err != nil {
		return models.Group{}, err
	}
	if _, ok := d.groups.Get(id); !ok {
		return models.Group{}, dirErr(ErrNotFound, op, models.GroupEntity, id, nil)
	}
	g = g.Clone()
	g.ID = id
	if err := d.saveGroups(op, id, &g, ""); err != nil {
		return models.Group{}, err
	}
	d.groups.Put(id, g)
	d.publish(models.DirectoryEvent{Entity: models.GroupEntity, Action: models.EventUpdate, ID: id})
	return g.Clone(), nil
}

// GetGroup - cached group by id
func (d *Directory) GetGroup(id string) (models.Group, error) {
	const op = "getGroup"
	d.mu.RLock()
	defer d.mu.RUnlock()
	if err := d.ready(op); err != nil {
		return models.Group{}, err
	}
	g, ok := d.groups.Get(id)
	if !ok {
		return models.Group{}, dirErr(ErrNotFound, op, models.GroupEntity, id, nil)
	}
	return g, nil
}

// GetGroups - every group in id order, reloading first only under RefreshOnList
func (d *Directory) GetGroups(page *models.PageRequest) (models.GroupQueryResponse, error) {
	const op = "getGroups"
	if d.opts.GroupRefresh == RefreshOnList {
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.ready(op); err != nil {
			return models.GroupQueryResponse{}, err
		}
		if err := d.reloadGroups(op); err != nil {
			return models.GroupQueryResponse{}, err
		}
	} else {
		d.mu.RLock()
		defer d.mu.RUnlock()
		if err := d.ready(op); err != nil {
			return models.GroupQueryResponse{}, err
		}
	}
	groups := d.groups.Snapshot()
	return models.NewGroupQueryResponse(groups, len(groups), page), nil
}

// DeleteGroup - persists the collection without the group, then drops it from the cache
func (d *Directory) DeleteGroup(id string) error {
	const op = "deleteGroup"
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(op); err != nil {
		return err
	}
	if _, ok := d.groups.Get(id); !ok {
		return dirErr(ErrNotFound, op, models.GroupEntity, id, nil)
	}
	if err := d.saveGroups(op, id, nil, id); err != nil {
		return err
	}
	d.groups.Remove(id)
	d.publish(models.DirectoryEvent{Entity: models.GroupEntity, Action: models.EventDelete, ID: id})
	return nil
}

func (d *Directory) displayNameTaken(name string) bool {
	fold := cases.Fold()
	want := fold.String(name)
	taken := false
	d.groups.Each(func(_ string, g models.Group) bool {
		if fold.String(g.DisplayName) == want {
			taken = true
			return false
		}
		return true
	})
	return taken
}

// saveGroups - writes the cached collection with put applied and skip left out. Caller holds mu.
func (d *Directory) saveGroups(op, id string, put *models.Group, skip string) error {
	records := make(map[string]string, d.groups.Size()+1)
	var encodeErr error
	d.groups.Each(func(gid string, g models.Group) bool {
		if gid == skip || (put != nil && gid == put.ID) {
			return true
		}
		record, err := json.Marshal(g)
		if err != nil {
			encodeErr = dirErr(ErrStoreWrite, op, models.GroupEntity, gid, err)
			return false
		}
		records[gid] = string(record)
		return true
	})
	if encodeErr != nil {
		return encodeErr
	}
	if put != nil {
		record, err := json.Marshal(put)
		if err != nil {
			return dirErr(ErrStoreWrite, op, models.GroupEntity, put.ID, err)
		}
		records[put.ID] = string(record)
	}
	if err := d.gw.SaveAll(database.GroupsRecord, records); err != nil {
		slog.Error("could not save groups", "op", op, "id", id, "error", err)
		return storeFailure(op, models.GroupEntity, id, err, ErrStoreWrite)
	}
	return nil
}
