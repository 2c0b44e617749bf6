package service

import (
	"agritrack-api/internal/model"
	"agritrack-api/internal/ws"

	"github.com/google/uuid"
)

// Actor is the authenticated principal on whose behalf a service call runs.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  model.Role
	IP    string
}

// SystemActor is used by seeders and command-line tools.
var SystemActor = Actor{Email: "system"}

// Ref is the value stored in createdBy/updatedBy.
func (a Actor) Ref() string {
	if a.ID == uuid.Nil {
		return "system"
	}
	return a.ID.String()
}

func (a Actor) userID() *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}

func (a Actor) eventUser() *ws.EventUser {
	return &ws.EventUser{ID: a.Ref(), Email: a.Email}
}

// ActivityRecorder accepts audit entries; implementations must not block.
type ActivityRecorder interface {
	Record(entry model.ActivityLog)
}

// Notifier pushes live updates to connected clients.
type Notifier interface {
	Publish(event ws.Event)
}

// sideEffects bundles the best-effort outputs of a mutating call.
type sideEffects struct {
	audit    ActivityRecorder
	notifier Notifier
}

func (s sideEffects) record(actor Actor, action, resource, resourceID, details string, status model.ActivityStatus) {
	if s.audit == nil {
		return
	}
	s.audit.Record(model.ActivityLog{
		UserID:     actor.userID(),
		UserName:   actor.Email,
		Action:     action,
		Details:    details,
		Status:     status,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  actor.IP,
	})
}

func (s sideEffects) publish(event ws.Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(event)
}
