package domain

// UserRole is the kind of member as reported by the identity directory.
type UserRole string

const (
	UserRoleAlumni  UserRole = "ALUMNI"
	UserRoleStudent UserRole = "STUDENT"
	UserRoleAdmin   UserRole = "ADMIN"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAlumni, UserRoleStudent, UserRoleAdmin:
		return true
	}
	return false
}

// IsNetworkMember reports whether users of this role take part in the
// alumni/student network (admins do not).
func (r UserRole) IsNetworkMember() bool {
	return r == UserRoleAlumni || r == UserRoleStudent
}

// ConnectionStatus is the lifecycle state of a connection edge.
type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "PENDING"
	ConnectionStatusAccepted ConnectionStatus = "ACCEPTED"
	ConnectionStatusRejected ConnectionStatus = "REJECTED"
)

func (s ConnectionStatus) String() string { return string(s) }

func (s ConnectionStatus) IsValid() bool {
	switch s {
	case ConnectionStatusPending, ConnectionStatusAccepted, ConnectionStatusRejected:
		return true
	}
	return false
}

// IsActive reports whether the status occupies the pair slot (PENDING or ACCEPTED).
func (s ConnectionStatus) IsActive() bool {
	return s == ConnectionStatusPending || s == ConnectionStatusAccepted
}

// IsTerminal reports whether no further transition is allowed.
func (s ConnectionStatus) IsTerminal() bool {
	return s == ConnectionStatusAccepted || s == ConnectionStatusRejected
}

// ConnectionRole selects connections by the viewer's relationship to them.
type ConnectionRole string

const (
	ConnectionRoleAccepted        ConnectionRole = "ACCEPTED"
	ConnectionRoleSentPending     ConnectionRole = "SENT_PENDING"
	ConnectionRoleReceivedPending ConnectionRole = "RECEIVED_PENDING"
)

func (r ConnectionRole) String() string { return string(r) }

func (r ConnectionRole) IsValid() bool {
	switch r {
	case ConnectionRoleAccepted, ConnectionRoleSentPending, ConnectionRoleReceivedPending:
		return true
	}
	return false
}

// RelationshipStatus describes how two users relate from the viewer's side.
type RelationshipStatus string

const (
	RelationshipNone            RelationshipStatus = "NONE"
	RelationshipPendingSent     RelationshipStatus = "PENDING_SENT"
	RelationshipPendingReceived RelationshipStatus = "PENDING_RECEIVED"
	RelationshipConnected       RelationshipStatus = "CONNECTED"
)

func (s RelationshipStatus) String() string { return string(s) }

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	NotificationConnectionRequested NotificationType = "CONNECTION_REQUESTED"
	NotificationConnectionAccepted  NotificationType = "CONNECTION_ACCEPTED"
)

func (t NotificationType) String() string { return string(t) }

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationConnectionRequested, NotificationConnectionAccepted:
		return true
	}
	return false
}

// EntityType identifies the kind of domain entity (used in audit logs).
type EntityType string

const (
	EntityTypeConnection EntityType = "CONNECTION"
	EntityTypeChat       EntityType = "CHAT"
	EntityTypeMessage    EntityType = "MESSAGE"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeConnection, EntityTypeChat, EntityTypeMessage:
		return true
	}
	return false
}

// AuditAction represents the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}
