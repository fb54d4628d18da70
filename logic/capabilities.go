package logic

import "github.com/gravitl/scimdir/models"

// GetImplementedCapabilities - user management operations the directory supports
func (d *Directory) GetImplementedCapabilities() []models.Capability {
	return []models.Capability{
		models.GroupPush,
		models.ImportNewUsers,
		models.ImportProfileUpdates,
		models.PushNewUsers,
		models.PushPasswordUpdates,
		models.PushPendingUsers,
		models.PushProfileUpdates,
		models.PushUserDeactivation,
		models.ReactivateUsers,
	}
}
