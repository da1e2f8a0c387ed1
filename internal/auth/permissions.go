package auth

import "cardquant-backend/internal/models"

// DefaultPermissions: rol başına varsayılan yetkiler
var DefaultPermissions = map[models.UserRole][]models.Permission{
	models.RoleAdmin:   models.AllPermissions,
	models.RoleManager: {
		models.PermView, models.PermEdit, models.PermDelete,
		models.PermViewCosts,
		models.PermViewAllStreams, models.PermViewOwnStreams, models.PermAddStream, models.PermEditStream, models.PermDeleteStream,
		models.PermManageInventory, models.PermViewInventory, models.PermEditInventory, models.PermDeleteInventory, models.PermPerformInventoryCheck,
		models.PermViewReports, models.PermExportData,
	},
	models.RoleStreamer: {
		models.PermViewOwnStreams, models.PermAddStream, models.PermViewInventory,
	},
}

// PermissionsFor: rolün varsayılan yetkilerinin kopyası
func PermissionsFor(role models.UserRole) []models.Permission {
	perms := DefaultPermissions[role]
	out := make([]models.Permission, len(perms))
	copy(out, perms)
	return out
}

// HasPermission: yetki kontrolü. Admin her şeye yetkilidir.
func HasPermission(user *models.CurrentUser, perm models.Permission) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	_, ok := user.Permissions[perm]
	return ok
}

// CanViewAllStreams: admin/manager veya view_all_streams
func CanViewAllStreams(user *models.CurrentUser) bool {
	if user == nil {
		return false
	}
	return user.Role == models.RoleManager || HasPermission(user, models.PermViewAllStreams)
}
