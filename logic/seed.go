package logic

import (
	"encoding/json"
	"strconv"

	"golang.org/x/exp/slog"

	"github.com/gravitl/scimdir/database"
	"github.com/gravitl/scimdir/logger"
	"github.com/gravitl/scimdir/models"
)

// SampleDirectory - two users and two groups for trying the connector without a populated store
func SampleDirectory(namespace string) ([]models.User, []models.Group) {
	first := models.Group{
		ID:          "1001",
		DisplayName: "firstGroup",
		Members:     []models.Membership{{Value: "101", Display: "okta"}},
	}
	first.SetDescription("This is the first group")

	second := models.Group{
		ID:          "1002",
		DisplayName: "secondGroup",
		Members: []models.Membership{
			{Value: "101", Display: "okta"},
			{Value: "102", Display: "admin"},
		},
	}
	second.SetDescription("This is the second group")

	kkl := models.User{
		ID:       "101",
		UserName: "kkl",
		Name:     &models.Name{Formatted: "Karmen Lei", FamilyName: "Lei", GivenName: "Karmen"},
		Emails:   []models.Email{{Value: "klei@example.com", Type: "work", Primary: true}},
		Active:   true,
		Password: "inSecure",
		Groups: []models.Membership{
			{Value: "1001", Display: "firstGroup"},
			{Value: "1002", Display: "secondGroup"},
		},
	}
	bag := kkl.CustomBag(namespace, true)
	bag.SetBool("isAdmin", false)
	bag.SetBool("isOkta", true)
	bag.SetString("departmentName", "Cloud Service")

	admin := models.User{
		ID:       "102",
		UserName: "admin",
		Name:     &models.Name{Formatted: "Barbara Jensen", FamilyName: "Jensen", GivenName: "Barbara"},
		Emails:   []models.Email{{Value: "bjensen@example.com", Type: "work", Primary: true}},
		Active:   false,
		Password: "god",
		Groups:   []models.Membership{{Value: "1002", Display: "secondGroup"}},
	}
	bag = admin.CustomBag(namespace, true)
	bag.SetBool("isAdmin", true)
	bag.SetBool("isOkta", false)
	bag.SetString("departmentName", "Administration")

	return []models.User{kkl, admin}, []models.Group{first, second}
}

// Seed - writes the given users and groups to the store and caches.
// With onlyIfEmpty it does nothing unless both collections are empty.
func (d *Directory) Seed(users []models.User, groups []models.Group, onlyIfEmpty bool) (bool, error) {
	const op = "seed"
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(op); err != nil {
		return false, err
	}
	if onlyIfEmpty && (d.users.Size() > 0 || d.groups.Size() > 0) {
		return false, nil
	}
	userRecords := make(map[string]string, len(users))
	userMap := make(map[string]models.User, len(users))
	for _, u := range users {
		record, err := json.Marshal(u)
		if err != nil {
			return false, dirErr(ErrStoreWrite, op, models.UserEntity, u.ID, err)
		}
		userRecords[u.ID] = string(record)
		userMap[u.ID] = u
	}
	groupRecords := make(map[string]string, len(groups))
	groupMap := make(map[string]models.Group, len(groups))
	for _, g := range groups {
		record, err := json.Marshal(g)
		if err != nil {
			return false, dirErr(ErrStoreWrite, op, models.GroupEntity, g.ID, err)
		}
		groupRecords[g.ID] = string(record)
		groupMap[g.ID] = g
	}
	prior, err := d.gw.LoadAll(database.UsersRecord)
	if err != nil {
		return false, storeFailure(op, models.UserEntity, "", err, ErrStoreRead)
	}
	if err := d.gw.SaveAll(database.UsersRecord, userRecords); err != nil {
		return false, storeFailure(op, models.UserEntity, "", err, ErrStoreWrite)
	}
	if err := d.gw.SaveAll(database.GroupsRecord, groupRecords); err != nil {
		if rerr := d.gw.SaveAll(database.UsersRecord, prior); rerr != nil {
			// store keeps the new users, so the cache follows it
			slog.Error("could not restore users after failed group seed", "op", op, "error", rerr)
			d.users.Replace(userMap)
		}
		return false, storeFailure(op, models.GroupEntity, "", err, ErrStoreWrite)
	}
	d.users.Replace(userMap)
	d.groups.Replace(groupMap)
	logger.Log(0, "seeded directory with", strconv.Itoa(len(users)), "users and", strconv.Itoa(len(groups)), "groups")
	return true, nil
}
