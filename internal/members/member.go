package members

import "time"

// Member is an individual gym member under a tenant. The member directory
// is owned by the surrounding management system; this service only reads it.
type Member struct {
	ID        int       `json:"id"`
	TenantID  int       `json:"tenantId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
