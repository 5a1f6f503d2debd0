package model

import "strings"

// User statuses.  Loyal customers are treated differently by the
// downstream discount service; the reservation engine only carries the
// value through.
const (
    StatusNormal = "normal"
    StatusLoyal  = "loyal"
)

// User represents an application user record as stored in the
// `users` table.  Authentication happens outside the reservation
// engine; the engine only ever sees ID and Status.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – display name.
//  Email        – unique login address.
//  PasswordHash – bcrypt hashed password.
//  Status       – "normal" or "loyal".
type User struct {
    ID           uint64 `json:"user_id"` // users.id
    Username     string `json:"username"` // users.username
    Email        string `json:"email"`    // users.email
    PasswordHash string `json:"-"`        // users.password_hash
    Status       string `json:"status"`   // users.status
}

// NormalizeEmail lower-cases and trims an address so lookups ignore case.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// NormalizeStatus maps anything but "loyal" to "normal".
func NormalizeStatus(status string) string {
    if status == StatusLoyal {
        return StatusLoyal
    }
    return StatusNormal
}
