package domain

type User struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Email     string `db:"email"`
	Hash      string `db:"password_hash"`
	ShipName  string `db:"ship_name"`
	Street    string `db:"ship_street"`
	City      string `db:"ship_city"`
	State     string `db:"ship_state"`
	Zip       string `db:"ship_zip"`
	CreatedAt string `db:"created_at"`
}

type ShippingAddress struct {
	Name   string `json:"name,omitempty"`
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

// PublicUser is the API view of a user, credentials stripped.
type PublicUser struct {
	UserID          string           `json:"userId"`
	Username        string           `json:"username"`
	Email           string           `json:"email"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty"`
	CreatedAt       string           `json:"createdAt"`
}

func (u User) Public() PublicUser {
	p := PublicUser{UserID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
	if u.ShipName != "" || u.Street != "" || u.City != "" || u.State != "" || u.Zip != "" {
		p.ShippingAddress = &ShippingAddress{Name: u.ShipName, Street: u.Street, City: u.City, State: u.State, Zip: u.Zip}
	}
	return p
}
