package realtime

import (
	"github.com/camden-git/gallerysysbackend/models"
)

// RoleEventPublisher forwards role mutations to the websocket hub so admin
// clients can refresh their views live. It registers with the role store as
// an observer.
type RoleEventPublisher struct {
	hub *Hub
}

func NewRoleEventPublisher(hub *Hub) *RoleEventPublisher {
	return &RoleEventPublisher{hub: hub}
}

func (p *RoleEventPublisher) RoleSaved(oldRole, newRole *models.Role) {
	p.hub.Broadcast(Event{
		Type: EventRoleSaved,
		Role: newRole.Name,
		Extra: map[string]interface{}{
			"created": oldRole == nil,
		},
	})
}

func (p *RoleEventPublisher) RoleDeleted(role *models.Role) {
	p.hub.Broadcast(Event{Type: EventRoleDeleted, Role: role.Name})
}

func (p *RoleEventPublisher) RoleMembershipChanged(role *models.Role, username string) {
	p.hub.Broadcast(Event{Type: EventRoleMembership, Role: role.Name, Username: username})
}
