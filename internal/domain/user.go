package domain

// Roles stored on users. ADMIN has every capability, ENTREPRENEUR can
// create and edit sales but not delete them or touch financial fields,
// BUYER only buys through checkout acting as their own customer.
const (
	RoleAdmin        = "ADMIN"
	RoleEntrepreneur = "ENTREPRENEUR"
	RoleBuyer        = "BUYER"
)

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}

// Capabilities is the precomputed permission set a Principal carries into
// every ledger call. Services consume these booleans and never look at
// the role again.
type Capabilities struct {
	CreateSale     bool
	EditSale       bool
	DeleteSale     bool
	EditFinancials bool
	Checkout       bool
}

// Principal is the acting party on a request, passed explicitly into the
// sale ledger instead of being pulled from request-scoped globals.
type Principal struct {
	UserID string
	Name   string
	Email  string
	Role   string
	Caps   Capabilities
}

func CapsForRole(role string) Capabilities {
	switch role {
	case RoleAdmin:
		return Capabilities{CreateSale: true, EditSale: true, DeleteSale: true, EditFinancials: true, Checkout: true}
	case RoleEntrepreneur:
		return Capabilities{CreateSale: true, EditSale: true}
	case RoleBuyer:
		return Capabilities{Checkout: true}
	}
	return Capabilities{}
}

func (u *User) ToPrincipal() Principal {
	return Principal{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Caps:   CapsForRole(u.Role),
	}
}
