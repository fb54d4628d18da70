package logic

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"github.com/gravitl/scimdir/cache"
	"github.com/gravitl/scimdir/database"
	"github.com/gravitl/scimdir/filter"
	"github.com/gravitl/scimdir/logger"
	"github.com/gravitl/scimdir/models"
)

// RefreshPolicy - when a list call repopulates a cache from the store
type RefreshPolicy string

const (
	// RefreshOnList - every unfiltered list reloads the collection
	RefreshOnList RefreshPolicy = "onlist"
	// RefreshManual - the collection is only reloaded by Refresh
	RefreshManual RefreshPolicy = "manual"
)

// Publisher - receives change events after successful mutations
type Publisher interface {
	Publish(event models.DirectoryEvent) error
}

// Options - directory settings
type Options struct {
	// UserNamespace - URN holding user custom attributes
	UserNamespace string
	// IDs - id source, defaults to the gateway's sequences when it has them and UUIDs otherwise
	IDs          IDGenerator
	UserRefresh  RefreshPolicy
	GroupRefresh RefreshPolicy
	Events       Publisher
}

// Directory - cached users and groups kept in step with a backing store.
// Mutations hold mu across the store write and the cache update.
type Directory struct {
	mu          sync.RWMutex
	gw          database.Gateway
	users       *cache.Cache[models.User]
	groups      *cache.Cache[models.Group]
	eval        filter.Evaluator
	ids         IDGenerator
	opts        Options
	initialized bool
}

// NewDirectory - directory over a gateway; call Init before use
func NewDirectory(gw database.Gateway, opts Options) *Directory {
	if opts.UserRefresh == "" {
		opts.UserRefresh = RefreshOnList
	}
	if opts.GroupRefresh == "" {
		opts.GroupRefresh = RefreshManual
	}
	ids := opts.IDs
	if ids == nil {
		if seq, ok := gw.(database.Sequencer); ok {
			ids = SequenceIDs{Seq: seq}
		} else {
			ids = UUIDIDs{}
		}
	}
	return &Directory{
		gw:     gw,
		users:  cache.New(models.User.Clone),
		groups: cache.New(models.Group.Clone),
		eval:   filter.Evaluator{UserNamespace: opts.UserNamespace},
		ids:    ids,
		opts:   opts,
	}
}

// Init - populates both caches from the store
func (d *Directory) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.reloadUsers("init"); err != nil {
		return err
	}
	if err := d.reloadGroups("init"); err != nil {
		return err
	}
	d.initialized = true
	logger.Log(0, "directory loaded", strconv.Itoa(d.users.Size()), "users and", strconv.Itoa(d.groups.Size()), "groups")
	return nil
}

// Refresh - repopulates both caches from the store regardless of refresh policy
func (d *Directory) Refresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready("refresh"); err != nil {
		return err
	}
	if err := d.reloadUsers("refresh"); err != nil {
		return err
	}
	if err := d.reloadGroups("refresh"); err != nil {
		return err
	}
	d.publish(models.DirectoryEvent{Entity: models.UserEntity, Action: models.EventRefresh, Count: d.users.Size()})
	d.publish(models.DirectoryEvent{Entity: models.GroupEntity, Action: models.EventRefresh, Count: d.groups.Size()})
	return nil
}

// UserNamespace - URN holding user custom attributes
func (d *Directory) UserNamespace() string {
	return d.opts.UserNamespace
}

func (d *Directory) ready(op string) error {
	if !d.initialized {
		return dirErr(ErrServiceUnavailable, op, "", "", nil)
	}
	return nil
}

// reloadUsers - swaps the user cache only when the whole collection decoded. Caller holds mu.
func (d *Directory) reloadUsers(op string) error {
	records, err := d.gw.LoadAll(database.UsersRecord)
	if err != nil {
		slog.Error("could not load users", "op", op, "error", err)
		return storeFailure(op, models.UserEntity, "", err, ErrStoreRead)
	}
	users := make(map[string]models.User, len(records))
	for id, record := range records {
		var u models.User
		if err := json.Unmarshal([]byte(record), &u); err != nil {
			return dirErr(ErrStoreRead, op, models.UserEntity, id, err)
		}
		u.ID = id
		users[id] = u
	}
	d.users.Replace(users)
	return nil
}

// reloadGroups - swaps the group cache only when the whole collection decoded. Caller holds mu.
func (d *Directory) reloadGroups(op string) error {
	records, err := d.gw.LoadAll(database.GroupsRecord)
	if err != nil {
		slog.Error("could not load groups", "op", op, "error", err)
		return storeFailure(op, models.GroupEntity, "", err, ErrStoreRead)
	}
	groups := make(map[string]models.Group, len(records))
	for id, record := range records {
		var g models.Group
		if err := json.Unmarshal([]byte(record), &g); err != nil {
			return dirErr(ErrStoreRead, op, models.GroupEntity, id, err)
		}
		g.ID = id
		groups[id] = g
	}
	d.groups.Replace(groups)
	return nil
}

// publish - events go out asynchronously so a slow broker never holds the directory lock
func (d *Directory) publish(event models.DirectoryEvent) {
	if d.opts.Events == nil {
		return
	}
	event.TimeStamp = time.Now()
	go func() {
		if err := d.opts.Events.Publish(event); err != nil {
			logger.Log(1, "failed to publish", event.Topic(), "event:", err.Error())
		}
	}()
}
