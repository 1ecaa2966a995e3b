package models

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// Identity is the authenticated user as returned by GET /me.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (id Identity) IsSeller() bool { return id.Role == RoleSeller }
func (id Identity) IsBuyer() bool  { return id.Role == RoleBuyer }
