package entities

type Role string

const (
	RoleClient     Role = "client"
	RoleCleaner    Role = "cleaner"
	RoleAdmin      Role = "admin"
	RoleTeamLeader Role = "team_leader"
)

// Actor is the authenticated caller supplied by the auth middleware.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// OwnsAsClient reports whether the actor is the client who requested the booking.
func (a Actor) OwnsAsClient(b Booking) bool {
	return a.Role == RoleClient && a.ID != "" && a.ID == b.ClientID
}

// AssignedProvider reports whether the actor is the provider assigned to the booking.
func (a Actor) AssignedProvider(b Booking) bool {
	return a.Role == RoleCleaner && a.ID != "" && a.ID == b.ProviderID
}
