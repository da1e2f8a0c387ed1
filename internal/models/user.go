package models

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleManager  UserRole = "manager"
	RoleStreamer UserRole = "streamer"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStreamer:
		return true
	}
	return false
}

// Permission: kapalı yetki kümesi. Yeni yetki eklemek burada derleme zamanında görünür.
type Permission string

const (
	PermView                  Permission = "view"
	PermEdit                  Permission = "edit"
	PermDelete                Permission = "delete"
	PermManageUsers           Permission = "manage_users"
	PermViewCosts             Permission = "view_costs"
	PermViewAllStreams        Permission = "view_all_streams"
	PermViewOwnStreams        Permission = "view_own_streams"
	PermAddStream             Permission = "add_stream"
	PermEditStream            Permission = "edit_stream"
	PermDeleteStream          Permission = "delete_stream"
	PermManageInventory       Permission = "manage_inventory"
	PermViewInventory         Permission = "view_inventory"
	PermEditInventory         Permission = "edit_inventory"
	PermDeleteInventory       Permission = "delete_inventory"
	PermPerformInventoryCheck Permission = "perform_inventory_check"
	PermViewReports           Permission = "view_reports"
	PermExportData            Permission = "export_data"
)

// AllPermissions: tanımlı tüm yetkiler, sıralı
var AllPermissions = []Permission{
	PermView, PermEdit, PermDelete,
	PermManageUsers,
	PermViewCosts,
	PermViewAllStreams, PermViewOwnStreams, PermAddStream, PermEditStream, PermDeleteStream,
	PermManageInventory, PermViewInventory, PermEditInventory, PermDeleteInventory, PermPerformInventoryCheck,
	PermViewReports, PermExportData,
}

func (p Permission) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"passwordHash"`
	Role         UserRole     `json:"role"`
	StreamerID   string       `json:"streamerId,omitempty"`
	Permissions  []Permission `json:"permissions"`
}

// CurrentUser: çekirdeğin gördüğü kimlik. Şifre bilgisi yok.
type CurrentUser struct {
	ID          string
	Name        string
	Role        UserRole
	StreamerID  string
	Permissions map[Permission]struct{}
}

func (u User) Current() CurrentUser {
	perms := make(map[Permission]struct{}, len(u.Permissions))
	for _, p := range u.Permissions {
		perms[p] = struct{}{}
	}
	return CurrentUser{
		ID:          u.ID,
		Name:        u.Name,
		Role:        u.Role,
		StreamerID:  u.StreamerID,
		Permissions: perms,
	}
}

func (u CurrentUser) Actor() Actor {
	return Actor{ID: u.ID, Name: u.Name}
}
